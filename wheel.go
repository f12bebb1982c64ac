// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

import "github.com/tickwheel/hwheel/internal/wlog"

// Wheel is the hierarchical timer wheel: the stack of wheelLevels, the
// monotonic tick counter, the scheduling dispatcher, the advancer state
// machine, and the range scheduler. A Wheel is not safe for concurrent
// use (see hwheel/driver for a synchronized wrapper).
type Wheel struct {
	now          Tick
	levels       [NumLevels]wheelLevel
	ticksPending uint64 // full ticks (including one in-progress, see carryActive) still owed
	carry        slotList
	carryActive  bool // true while carry holds a tick's undispatched leftovers
	running      bool
}

// New creates a Wheel with now starting at InitialTick.
func New() *Wheel {
	w := &Wheel{now: Tick(InitialTick)}
	for i := range w.levels {
		w.levels[i].init(uint8(i))
		// index must start in phase with InitialTick's own bit slice for
		// this level: rotate() free-runs from here, and placement always
		// indexes by the absolute bits of now, so a level whose index
		// doesn't already match now's slice for that level is permanently
		// out of phase with every absolute-bit placement into it.
		w.levels[i].index = slotIndex(w.now, uint8(i))
	}
	w.carry.init(0, 0)
	return w
}

// Now returns the current tick. During a callback invoked from Advance,
// this equals the tick the callback's event was scheduled for.
func (w *Wheel) Now() Tick {
	return w.now
}

// levelFor returns the smallest level whose granularity can resolve a
// delta-tick-away target, mirroring the teacher's getWheelPos switch
// (delta < W0Entries => level 0, delta < W0Entries*W1Entries => level 1,
// ...), generalized to NumLevels equal-width levels.
func levelFor(delta uint64) uint8 {
	g := uint64(1)
	for lvl := uint8(0); lvl < NumLevels-1; lvl++ {
		g <<= WidthBits
		if delta < g {
			return lvl
		}
	}
	return NumLevels - 1
}

// place inserts e, already carrying a valid scheduledAt in the future,
// into the level/slot the standard placement rule selects.
func (w *Wheel) place(e *EventNode, t Tick) {
	delta := uint64(t) - uint64(w.now)
	lvl := levelFor(delta)
	e.scheduledAt = t
	e.wheelBack = w
	w.levels[lvl].slotFor(t).insert(e)
}

// redistribute re-places a node drained from a rotating level's slot,
// according to its (unchanged) scheduledAt and the wheel's current now.
// A node whose scheduledAt has already been reached (scheduledAt == now,
// when it sits at the first tick the drained slot covers) goes straight
// to level 0's current slot, for dispatch this same tick.
func (w *Wheel) redistribute(e *EventNode) {
	if e.scheduledAt.LE(w.now) {
		e.wheelBack = w
		w.levels[0].current().insert(e)
		return
	}
	w.place(e, e.scheduledAt)
}

// Schedule arms e to fire delta ticks from now. delta must be >= 1; a
// delta of 0 is a contract violation and panics, per spec.md §7. If e is
// already active it is first cancelled (cancel-then-schedule is
// idempotent: Schedule on an already-active node never leaves it on two
// slots).
func (w *Wheel) Schedule(e *EventNode, delta uint64) {
	if delta == 0 {
		wlog.PANIC("Schedule called with delta == 0\n")
	}
	if delta >= MaxTicksDiff {
		wlog.PANIC("Schedule delta too high: %d\n", delta)
	}
	e.Cancel()
	w.place(e, w.now.AddUint64(delta))
}

// ScheduleInRange arms e to fire at some tick in [now+start, now+end],
// chosen to minimize future promotion work: if e is already active with
// a scheduledAt inside the feasible window, it is left untouched (the
// key occupancy optimization — reschedules within declared slack are
// free). Otherwise the implementation picks the latest tick in the
// window that shares the longest run of low-order bytes with now (see
// chooseAlignedTick).
func (w *Wheel) ScheduleInRange(e *EventNode, start, end uint64) {
	if !(start >= 1 && start < end) {
		wlog.PANIC("ScheduleInRange called with bad range [%d, %d)\n", start, end)
	}
	lo := w.now.AddUint64(start)
	hi := w.now.AddUint64(end)
	if e.active() && e.scheduledAt.GE(lo) && e.scheduledAt.LE(hi) {
		return
	}
	e.Cancel()
	w.place(e, w.chooseAlignedTick(lo, hi))
}

// chooseAlignedTick implements the tie-break heuristic of §4.4: prefer
// the tick in [lo, hi] whose XOR with now has the most trailing zero
// bytes (i.e. shares the longest low-order byte run with now), breaking
// ties toward the latest tick. A tick sharing k low bytes with now is a
// multiple of Width^k ticks away, so the node is placed on level k or
// above; when no tick in the window shares even one byte, hi is used.
func (w *Wheel) chooseAlignedTick(lo, hi Tick) Tick {
	best := hi
	for k := 1; k < NumLevels; k++ {
		period := uint64(1) << (WidthBits * uint(k))
		rem := uint64(w.now) % period
		cand := (uint64(hi)/period)*period + rem
		if cand > uint64(hi) {
			cand -= period
		}
		if cand < uint64(lo) {
			continue
		}
		best = Tick(cand)
	}
	return best
}

// cascade rotates level and, if the rotation wraps, recursively cascades
// the level above first. It then drains the slot the rotation lands on
// and redistributes every node it held. Called with level == 1 whenever
// level 0 wraps; levels above propagate the same way.
func (w *Wheel) cascade(level uint8) {
	if level >= NumLevels {
		// top level spans the entire 64-bit domain: it never wraps in
		// practice, but guard against the degenerate case anyway.
		return
	}
	if w.levels[level].rotate() {
		w.cascade(level + 1)
	}
	var tmp slotList
	tmp.init(level, w.levels[level].index)
	w.levels[level].current().drainInto(&tmp)
	tmp.forEachDetach(func(e *EventNode) {
		w.redistribute(e)
	})
}

// dispatchTmp fires every node in tmp, in order, stopping early once
// budget reaches zero (when !unbounded). Nodes already fired are fully
// detached; any nodes left in tmp on a false return remain linked to
// tmp's own slotBack, ready for the caller to park them (see carry
// below) or re-drain later. Returns false iff it stopped on budget.
func (w *Wheel) dispatchTmp(tmp *slotList, budget *int, unbounded bool) bool {
	for !tmp.isEmpty() {
		if !unbounded && *budget <= 0 {
			return false
		}
		e := tmp.head.next
		tmp.remove(e)
		e.slotBack = nil
		e.wheelBack = nil
		*budget--
		if wlog.DBGon() {
			wlog.DBG("firing event %s at tick %s\n", e.DebugID(), w.now)
		}
		e.exec.Execute()
	}
	return true
}

// Advance moves logical time forward by delta ticks (plus any ticks left
// pending from a previous bounded call), dispatching every node whose
// scheduledAt is reached along the way. It returns true once every due
// event has run, or false if maxExecute was exhausted first (call
// Advance(0, ...) again to drain the remainder — maxExecute is supplied
// fresh on each such call; it is not an accumulating budget). maxExecute
// <= 0 means unbounded.
//
// delta == 0 is only accepted when a previous call left work pending
// (ticksPending > 0 or a carry slot active); otherwise it is a contract
// violation. Advance must never be called reentrantly (e.g. from inside
// a callback it is currently running) — doing so panics.
func (w *Wheel) Advance(delta uint64, maxExecute int) bool {
	if w.running {
		wlog.PANIC("Advance called reentrantly\n")
	}
	resuming := w.ticksPending > 0 || w.carryActive
	if delta == 0 && !resuming {
		wlog.PANIC("Advance called with delta == 0 and nothing pending\n")
	}
	w.running = true
	defer func() { w.running = false }()

	unbounded := maxExecute <= 0
	budget := maxExecute

	remaining := delta + w.ticksPending
	w.ticksPending = 0

	// A prior call may have left a tick's worth of events parked in
	// carry because the budget ran out mid-slot. Resume that same
	// tick, without rotating again, before touching any new ticks.
	if w.carryActive {
		if !w.dispatchTmp(&w.carry, &budget, unbounded) {
			w.ticksPending = remaining
			return false
		}
		w.carryActive = false
		remaining--
	}

	for remaining > 0 {
		// now must reflect the tick being entered before cascade/place
		// compute deltas against it: otherwise a node draining off the
		// top of a band (e.g. t == band_start+Width-1) is redistributed
		// against the stale now and lands one full level short, stalling
		// it for an entire level period instead of firing immediately.
		w.now = w.now.AddUint64(1)
		if w.levels[0].rotate() {
			w.cascade(1)
		}

		slot := w.levels[0].current()
		var tmp slotList
		tmp.init(0, w.levels[0].index)
		slot.drainInto(&tmp)

		if !w.dispatchTmp(&tmp, &budget, unbounded) {
			tmp.drainInto(&w.carry)
			w.carryActive = true
			w.ticksPending = remaining
			return false
		}
		remaining--
	}
	return true
}

// TicksToNextEvent returns the delta to the nearest scheduled event,
// capped at max. It returns 0 if a previous bounded Advance left work
// pending. The answer may be a conservative underestimate when a
// higher-level slot is non-empty but would cascade to an empty inner
// position (see spec.md §4.4) — that never affects Advance's
// correctness, only how eagerly a caller re-checks.
func (w *Wheel) TicksToNextEvent(max uint64) uint64 {
	if w.ticksPending > 0 || w.carryActive {
		return 0
	}
	if max == 0 {
		return 0
	}
	level0Horizon := uint64(Width - 1)
	if level0Horizon > max {
		level0Horizon = max
	}
	best := max
	for d := uint64(1); d <= level0Horizon; d++ {
		idx := (uint64(w.levels[0].index) + d) % Width
		if !w.levels[0].slots[idx].isEmpty() {
			best = d
			break
		}
	}

	// A node on level lvl cannot fire before that level rotates onto its
	// slot: the slot d positions past the current index is drained
	// toBoundary+(d-1)*g ticks from now.
	for lvl := uint8(1); lvl < NumLevels; lvl++ {
		g := granularity(lvl)
		toBoundary := g - uint64(w.now)%g
		if toBoundary >= best {
			break
		}
		for d := uint64(0); d < Width; d++ {
			idx := (uint64(w.levels[lvl].index) + d) % Width
			if !w.levels[lvl].slots[idx].isEmpty() {
				dist := g // current slot: not drained before a full rotation
				if d > 0 {
					dist = toBoundary + (d-1)*g
				}
				if dist < best {
					best = dist
				}
			}
		}
	}
	return best
}
