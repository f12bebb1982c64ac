// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

import "github.com/tickwheel/hwheel/internal/wlog"

// slotList is an unordered intrusive doubly linked list of EventNodes,
// one bucket of one wheelLevel's ring (or a free-standing temporary used
// while draining a bucket during cascade/dispatch). Insertion and
// removal are O(1); order within a slot is unspecified.
type slotList struct {
	head  EventNode // sentinel; only next/prev are meaningful
	level uint8      // owning level, for diagnostics only
	idx   uint16     // owning ring index, for diagnostics only
}

// init makes lst an empty circular list owned by (level, idx).
func (lst *slotList) init(level uint8, idx uint16) {
	lst.head.next = &lst.head
	lst.head.prev = &lst.head
	lst.level = level
	lst.idx = idx
}

func (lst *slotList) isEmpty() bool {
	return lst.head.next == &lst.head
}

// insert adds e at the front of lst. e must be detached.
func (lst *slotList) insert(e *EventNode) {
	if !e.detached() {
		wlog.PANIC("slotList.insert called on a linked node (level %d idx %d)\n",
			lst.level, lst.idx)
	}
	e.prev = &lst.head
	e.next = lst.head.next
	e.next.prev = e
	lst.head.next = e
	e.slotBack = lst
}

// remove splices e out of lst. It does not clear e.slotBack; callers
// that are fully detaching e (as opposed to moving it to another list)
// are responsible for that, mirroring the teacher's timerLst.rm().
func (lst *slotList) remove(e *EventNode) {
	if e.slotBack != lst {
		wlog.BUG("slotList.remove called with a node from a different slot\n")
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
}

// drainInto moves every element of lst to the end of dst, leaving lst
// empty, and re-points each moved node's slotBack to dst. This is the
// reentrancy-safe pattern used before dispatching or cascading a slot: a
// callback that mutates the slot (via Cancel or a new Schedule landing
// back on the same bucket) sees a slot that has already been emptied,
// not one it is iterating live.
func (lst *slotList) drainInto(dst *slotList) {
	if lst.isEmpty() {
		return
	}
	for e := lst.head.next; e != &lst.head; e = e.next {
		e.slotBack = dst
	}

	first := lst.head.next
	last := lst.head.prev
	lst.head.next = &lst.head
	lst.head.prev = &lst.head

	first.prev = dst.head.prev
	last.next = &dst.head
	dst.head.prev.next = first
	dst.head.prev = last
}

// forEachDetach iterates lst front-to-back, removing each node just
// before calling f on it so f may re-schedule or cancel other nodes
// without corrupting the iteration.
func (lst *slotList) forEachDetach(f func(e *EventNode)) {
	for !lst.isEmpty() {
		e := lst.head.next
		lst.remove(e)
		e.slotBack = nil
		f(e)
	}
}
