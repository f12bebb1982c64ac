// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package hwheel implements a hierarchical timer wheel, optimised for a
// densely occupied timer population where most scheduled events are
// cancelled or rescheduled before they ever fire.
//
// The wheel is single-threaded and clock-agnostic: it owns no goroutine,
// performs no I/O, and only reacts to a caller-supplied Advance(delta).
// Callers that need a real wall-clock driver or thread-safe access should
// wrap a Wheel with hwheel/driver.Driver.
package hwheel

const NAME = "hwheel"
