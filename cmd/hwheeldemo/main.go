// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Command hwheeldemo drives a hwheel.driver.Driver from a TOML config
// file, scheduling a handful of named jobs and logging when each fires.
// It exists to exercise the wheel end-to-end against a real clock; it
// is not part of the library's public surface.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tickwheel/hwheel"
	"github.com/tickwheel/hwheel/driver"
	"github.com/tickwheel/hwheel/internal/wlog"
)

func main() {
	cfgPath := flag.String("config", "", "path to a TOML config file (optional)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hwheeldemo: loading config: %s\n", err)
		os.Exit(1)
	}
	wlog.SetDebug(cfg.Debug)

	d := driver.New(cfg.tickDuration())
	for _, j := range cfg.Jobs {
		scheduleJob(d, j)
	}
	d.Start()
	defer d.Shutdown()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

// scheduleJob arms one configured job, using ScheduleInRange when the
// config gives it slack (DeltaMax > DeltaMin) and Schedule otherwise.
func scheduleJob(d *driver.Driver, j job) {
	runID := uuid.New()
	ev := hwheel.NewCallbackEvent(func(arg interface{}) {
		name := arg.(string)
		if wlog.DBGon() {
			wlog.DBG("job %q (run %s) fired at %s\n", name, runID, time.Now())
		}
		fmt.Printf("[hwheeldemo] %s fired (run %s)\n", name, runID)
	}, j.Name)

	if j.DeltaMax > j.DeltaMin {
		d.ScheduleInRange(&ev.EventNode, j.DeltaMin, j.DeltaMax)
		return
	}
	d.Schedule(&ev.EventNode, j.DeltaMin)
}
