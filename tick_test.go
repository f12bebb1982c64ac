// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package hwheel

import (
	"math/rand"
	"os"
	"testing"
	"time"
)

var seed int64

func TestMain(m *testing.M) {
	seed = time.Now().UnixNano()
	rand.Seed(seed)
	res := m.Run()
	os.Exit(res)
}

func TestTickConst(t *testing.T) {
	if TicksBits != 64 {
		t.Fatalf("bad TicksBits constant %d, want 64\n", TicksBits)
	}
	if MaxTicksDiff == 0 || (MaxTicksDiff&(MaxTicksDiff-1)) != 0 {
		t.Fatalf("wrong MaxTicksDiff 0x%x, should be 2^k\n", uint64(MaxTicksDiff))
	}
	if Width != 1<<WidthBits {
		t.Fatalf("Width %d does not match WidthBits %d\n", Width, WidthBits)
	}
	if NumLevels*WidthBits != 64 {
		t.Fatalf("NumLevels*WidthBits = %d, want 64\n", NumLevels*WidthBits)
	}
}

func tstOp(t *testing.T, p string, v1, v2 uint64) {
	t1 := Tick(v1)
	t2 := Tick(v2)

	if (v1 >= v2 && (v1-v2) < MaxTicksDiff) || (v1 < v2 && (v2-v1) < MaxTicksDiff) {
		if t1.LT(t2) != (v1 < v2) {
			t.Errorf(p+"LT for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if t1.LE(t2) != (v1 <= v2) {
			t.Errorf(p+"LE for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if t1.GT(t2) != (v1 > v2) {
			t.Errorf(p+"GT for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if t1.GE(t2) != (v1 >= v2) {
			t.Errorf(p+"GE for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if uint64(t1.Add(t2)) != v1+v2 {
			t.Errorf(p+"Add for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if uint64(t1.Sub(t2)) != v1-v2 {
			t.Errorf(p+"Sub for 0x%x <> 0x%x failed\n", v1, v2)
		}
		if uint64(t1.AddUint64(v2)) != v1+v2 {
			t.Errorf(p+"AddUint64 for 0x%x <> 0x%x failed\n", v1, v2)
		}
	}
}

func TestTickOps(t *testing.T) {
	const iterations = 10000
	tstOp(t, "", 1, 2)
	tstOp(t, "", 4, 3)
	tstOp(t, "", MaxTicksDiff-1, 1)
	tstOp(t, "", 1, MaxTicksDiff-1)

	for i := 0; i < iterations; i++ {
		v1 := uint64(rand.Int63())
		diff := uint64(rand.Int63()) // [0, MaxTicksDiff)
		tstOp(t, "rand+: ", v1, v1+diff)
		tstOp(t, "rand-: ", v1, v1-diff)
	}
}

func TestSlotIndexGranularity(t *testing.T) {
	for lvl := uint8(0); lvl < NumLevels; lvl++ {
		if granularity(lvl) != uint64(1)<<(WidthBits*uint(lvl)) {
			t.Errorf("granularity(%d) wrong\n", lvl)
		}
	}
	var base Tick = 0x1234_5678_9abc_def0
	for lvl := uint8(0); lvl < NumLevels; lvl++ {
		idx := slotIndex(base, lvl)
		want := uint16((uint64(base) >> (WidthBits * uint(lvl))) & (Width - 1))
		if idx != want {
			t.Errorf("slotIndex(%s, %d) = %d, want %d\n", base, lvl, idx, want)
		}
	}
}
