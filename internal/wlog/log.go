// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package wlog is the ambient logging shim shared by the core wheel and
// its driver, grounded on the DBG/ERR/WARN/BUG/PANIC call convention used
// throughout the teacher's wtimer.go, backed by github.com/intuitivelabs/slog.
package wlog

import (
	"fmt"

	"github.com/intuitivelabs/slog"
)

// Log is the package-wide leveled logger. Callers may lower/raise the
// level at start-up (e.g. from the demo CLI's config file).
var Log slog.Log

func init() {
	Log.Init("hwheel", slog.LERR|slog.LWARN|slog.LNOTICE, 0)
}

// SetDebug toggles verbose tracing (one line per fired event).
func SetDebug(on bool) {
	if on {
		Log.SetLevel(Log.GetLevel() | slog.LDBG)
	} else {
		Log.SetLevel(Log.GetLevel() &^ slog.LDBG)
	}
}

func DBGon() bool  { return Log.DBGon() }
func ERRon() bool  { return Log.ERRon() }
func WARNon() bool { return Log.WARNon() }

func DBG(f string, a ...interface{})  { Log.DBG(f, a...) }
func ERR(f string, a ...interface{})  { Log.ERR(f, a...) }
func WARN(f string, a ...interface{}) { Log.WARN(f, a...) }

// BUG logs an internal invariant violation. Unlike PANIC, it does not
// abort: some invariant breaks are recoverable enough to log-and-continue
// during development, matching the teacher's own BUG() call sites.
func BUG(f string, a ...interface{}) {
	Log.BUG(f, a...)
}

// PANIC logs an unrecoverable contract violation and aborts, per
// spec.md §7 ("implementations should fail fast ... and must never
// silently proceed").
func PANIC(f string, a ...interface{}) {
	Log.ERR("PANIC: "+f, a...)
	panic(fmt.Sprintf(f, a...))
}
