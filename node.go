// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

import "github.com/google/uuid"

// Executor is the dispatch hook an EventNode invokes when it fires. The
// base EventNode defines no policy; CallbackEvent and MethodEvent (see
// variants.go) are the two adapters the wheel ships.
type Executor interface {
	Execute()
}

// EventNode is a linkable record representing one scheduled occurrence.
// Storage is always owned by the caller (embedded in a variant, which in
// turn is owned by the caller's own data structure); the wheel holds only
// the back-references below, never ownership.
//
// Invariant: active() <=> slotBack != nil <=> wheelBack != nil <=> the
// node is a member of exactly one slotList.
type EventNode struct {
	next, prev  *EventNode // intrusive list pointers within the slot
	scheduledAt Tick       // 0 if never scheduled or cancelled; kept after firing
	slotBack    *slotList  // containing slot, nil if inactive
	wheelBack   *Wheel     // owning wheel, nil if inactive
	exec        Executor   // set once by the owning variant's constructor

	debugID *uuid.UUID // lazily assigned, tracing only (see DebugID)
}

// active reports whether the node is currently linked into a wheel.
func (e *EventNode) active() bool {
	return e.slotBack != nil
}

// Active returns whether the event is currently scheduled.
func (e *EventNode) Active() bool {
	return e.active()
}

// ScheduledAt returns the tick the event is set to fire on. Only
// meaningful when Active(); during the node's own callback it equals the
// wheel's observable Now().
func (e *EventNode) ScheduledAt() Tick {
	return e.scheduledAt
}

// Cancel unlinks the node from its slot in O(1). Safe to call on an
// already-inactive node (no-op) and safe to call from within the node's
// own callback, since the wheel always splices a node out of its slot
// before dispatching it (see Wheel.dispatchTmp).
//
// Go has no deterministic destructors: unlike the reference
// implementation, dropping the last reference to an active EventNode
// does NOT auto-cancel it. Callers that embed an EventNode in a value
// they are about to discard must call Cancel() first, exactly as they
// must call Close() on any other resource-owning Go value.
func (e *EventNode) Cancel() {
	if !e.active() {
		return
	}
	e.slotBack.remove(e)
	e.slotBack = nil
	e.wheelBack = nil
	e.scheduledAt = 0
}

// DebugID returns a lazily-assigned correlation id for this node, used
// only in DBG traces and by demo/diagnostic tooling. It has no bearing on
// scheduling semantics.
func (e *EventNode) DebugID() uuid.UUID {
	if e.debugID == nil {
		id := uuid.New()
		e.debugID = &id
	}
	return *e.debugID
}

// detached reports whether the node is a free-standing list element
// (used internally by slotList to sanity-check linkage).
func (e *EventNode) detached() bool {
	return e.next == nil && e.prev == nil
}
