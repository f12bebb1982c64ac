// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

import "testing"

type noopExec struct{ ran int }

func (n *noopExec) Execute() { n.ran++ }

func newTestNode() *EventNode {
	e := &EventNode{}
	e.exec = &noopExec{}
	return e
}

func TestSlotListInsertRemove(t *testing.T) {
	var lst slotList
	lst.init(0, 0)
	if !lst.isEmpty() {
		t.Fatalf("freshly init'd slotList not empty\n")
	}

	a := newTestNode()
	b := newTestNode()
	lst.insert(a)
	lst.insert(b)
	if lst.isEmpty() {
		t.Fatalf("slotList empty after two inserts\n")
	}
	if a.slotBack != &lst || b.slotBack != &lst {
		t.Fatalf("slotBack not set to owning list\n")
	}

	lst.remove(a)
	a.slotBack = nil
	if a.next != nil || a.prev != nil {
		t.Fatalf("removed node still linked\n")
	}
	if lst.isEmpty() {
		t.Fatalf("slotList empty after removing only one of two\n")
	}

	lst.remove(b)
	b.slotBack = nil
	if !lst.isEmpty() {
		t.Fatalf("slotList not empty after removing all nodes\n")
	}
}

func TestSlotListInsertPanicsOnLinkedNode(t *testing.T) {
	var lst slotList
	lst.init(0, 0)
	a := newTestNode()
	lst.insert(a)

	defer func() {
		if recover() == nil {
			t.Fatalf("insert of an already-linked node did not panic\n")
		}
	}()
	lst.insert(a)
}

func TestSlotListDrainInto(t *testing.T) {
	var src, dst slotList
	src.init(0, 1)
	dst.init(0, 2)

	nodes := make([]*EventNode, 5)
	for i := range nodes {
		nodes[i] = newTestNode()
		src.insert(nodes[i])
	}

	src.drainInto(&dst)
	if !src.isEmpty() {
		t.Fatalf("source list not empty after drainInto\n")
	}
	for _, n := range nodes {
		if n.slotBack != &dst {
			t.Fatalf("drained node's slotBack was not repointed to dst\n")
		}
	}

	count := 0
	for e := dst.head.next; e != &dst.head; e = e.next {
		count++
	}
	if count != len(nodes) {
		t.Fatalf("dst holds %d nodes, want %d\n", count, len(nodes))
	}

	// removing a drained node must not trip the slotBack-mismatch BUG
	// check, since it was correctly repointed.
	dst.remove(nodes[0])
}

func TestSlotListDrainIntoNonEmptyDst(t *testing.T) {
	var src, dst slotList
	src.init(0, 1)
	dst.init(0, 2)

	existing := newTestNode()
	dst.insert(existing)

	a := newTestNode()
	b := newTestNode()
	src.insert(a)
	src.insert(b)

	src.drainInto(&dst)

	count := 0
	for e := dst.head.next; e != &dst.head; e = e.next {
		count++
	}
	if count != 3 {
		t.Fatalf("dst holds %d nodes after merge, want 3\n", count)
	}
}

func TestSlotListForEachDetach(t *testing.T) {
	var lst slotList
	lst.init(0, 0)
	const n = 4
	for i := 0; i < n; i++ {
		lst.insert(newTestNode())
	}

	seen := 0
	lst.forEachDetach(func(e *EventNode) {
		seen++
		if e.slotBack != nil {
			t.Errorf("node still has slotBack set inside forEachDetach callback\n")
		}
	})
	if seen != n {
		t.Fatalf("forEachDetach visited %d nodes, want %d\n", seen, n)
	}
	if !lst.isEmpty() {
		t.Fatalf("list not empty after forEachDetach\n")
	}
}

func TestEventNodeCancelIdempotent(t *testing.T) {
	e := newTestNode()
	e.Cancel() // no-op on an inactive node
	if e.Active() {
		t.Fatalf("inactive node reports Active() == true\n")
	}

	var lst slotList
	lst.init(0, 0)
	lst.insert(e)
	e.scheduledAt = 42
	if !e.Active() {
		t.Fatalf("linked node reports Active() == false\n")
	}

	e.Cancel()
	if e.Active() {
		t.Fatalf("node still Active() after Cancel\n")
	}
	if e.ScheduledAt() != 0 {
		t.Fatalf("ScheduledAt not reset after Cancel\n")
	}
	e.Cancel() // second Cancel must also be a no-op, not a panic/BUG
}

func TestEventNodeDebugIDStable(t *testing.T) {
	e := newTestNode()
	id1 := e.DebugID()
	id2 := e.DebugID()
	if id1 != id2 {
		t.Fatalf("DebugID changed across calls: %s != %s\n", id1, id2)
	}
}
