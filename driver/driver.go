// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package driver wraps hwheel.Wheel, which is single-threaded and
// clock-agnostic, into a thread-safe component that ticks itself off the
// wall clock. It is grounded on the teacher's WTimer.Start/ticker/
// Shutdown lifecycle, but runs a single ticker goroutine instead of a
// pool of run-queue workers: hwheel.Wheel dispatches synchronously in
// the caller's goroutine by design, so there is no run queue to fan out.
package driver

import (
	"sync"
	"time"

	"github.com/intuitivelabs/timestamp"

	"github.com/tickwheel/hwheel"
	"github.com/tickwheel/hwheel/internal/wlog"
)

// MaxExecutePerTick bounds how many events one ticker wakeup will fire
// before yielding back to the ticker loop, so a pathological burst of
// simultaneous expirations cannot stall the goroutine indefinitely.
const MaxExecutePerTick = 4096

// Driver owns a Wheel plus the goroutine and wall-clock bookkeeping
// needed to advance it in real time. All exported methods are safe for
// concurrent use.
type Driver struct {
	mu   sync.Mutex
	w    *hwheel.Wheel
	tick time.Duration

	lastTickT timestamp.TS
	refTS     timestamp.TS
	refTicks  hwheel.Tick
	badTime   int

	cancel chan struct{}
	wg     sync.WaitGroup
}

// New creates a Driver that advances its Wheel once per tick of the
// given duration once Start is called. tick must be > 0.
func New(tick time.Duration) *Driver {
	if tick <= 0 {
		wlog.PANIC("driver.New called with non-positive tick duration %s\n", tick)
	}
	return &Driver{
		w:    hwheel.New(),
		tick: tick,
	}
}

// Schedule arms e to fire delta ticks (of the Driver's configured tick
// duration) from now.
func (d *Driver) Schedule(e *hwheel.EventNode, delta uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.w.Schedule(e, delta)
}

// ScheduleInRange arms e to fire at some tick in [now+start, now+end].
func (d *Driver) ScheduleInRange(e *hwheel.EventNode, start, end uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.w.ScheduleInRange(e, start, end)
}

// Now returns the wheel's current logical tick.
func (d *Driver) Now() hwheel.Tick {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.w.Now()
}

// Start launches the ticker goroutine. No events fire before Start is
// called.
func (d *Driver) Start() {
	d.cancel = make(chan struct{})
	now := timestamp.Now()
	d.lastTickT = now
	d.refTS = now
	d.mu.Lock()
	d.refTicks = d.w.Now()
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if wlog.DBGon() {
			wlog.DBG("starting ticker with %s at %s\n", d.tick, time.Now())
		}
		ticker := time.NewTicker(d.tick)
		defer ticker.Stop()
		for {
			select {
			case <-d.cancel:
				return
			case _, ok := <-ticker.C:
				if !ok {
					return
				}
				d.onTick()
			}
		}
	}()
}

// Shutdown stops the ticker goroutine and waits for it to exit. Safe to
// call even if Start was never called.
func (d *Driver) Shutdown() {
	if d.cancel != nil {
		close(d.cancel)
	}
	d.wg.Wait()
}

// onTick is the per-wakeup handler, grounded on the teacher's
// WTimer.ticker(): it detects wall-clock going backward and, after more
// than 10 consecutive backward readings, resynchronizes lastTickT/refTS/
// refTicks to the current reading. Forward drift is not limited: the
// wheel is advanced by every whole tick elapsed since the last tick.
func (d *Driver) onTick() {
	now := timestamp.Now()
	if now.Before(d.lastTickT) {
		d.badTime++
		if d.badTime > 10 {
			if wlog.ERRon() {
				wlog.ERR("recovering after time going backward %d times with %s\n",
					d.badTime, d.lastTickT.Sub(now))
			}
			d.lastTickT = now
			d.refTS = now
			d.mu.Lock()
			d.refTicks = d.w.Now()
			d.mu.Unlock()
		}
		return
	}
	d.badTime = 0

	diff := now.Sub(d.lastTickT)
	if diff < d.tick {
		return
	}
	ticks := uint64(diff / d.tick)
	rest := diff % d.tick
	d.lastTickT = now.Add(-rest)

	d.mu.Lock()
	defer d.mu.Unlock()
	// Work left over when the budget runs out stays pending in the wheel
	// and is resumed by the next wakeup's Advance call.
	d.w.Advance(ticks, MaxExecutePerTick)
}
