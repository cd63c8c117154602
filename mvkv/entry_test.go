package mvkv

import (
	"testing"
	"unsafe"

	"lukechampine.com/uint128"
)

type fakeWrite struct {
	deleted bool
	n       uint64
}

func (f fakeWrite) IsDeletion() bool                  { return f.deleted }
func (f fakeWrite) ToNumericBase() uint128.Uint128     { return uint128.From64(f.n) }

func TestEntry_FlagStartsDone(t *testing.T) {
	e := newWriteEntry[fakeWrite](0, fakeWrite{n: 1})
	if e.Flag() != FlagDone {
		t.Fatalf("expected FlagDone, got %v", e.Flag())
	}
}

func TestEntry_MarkEstimate(t *testing.T) {
	e := newWriteEntry[fakeWrite](0, fakeWrite{n: 1})
	e.markEstimate()
	if e.Flag() != FlagEstimate {
		t.Fatalf("expected FlagEstimate, got %v", e.Flag())
	}
}

func TestEntry_WritePanicsOnDelta(t *testing.T) {
	e := newDeltaEntry[fakeWrite](nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Write on a delta entry")
		}
	}()
	e.Write()
}

func TestEntry_DeltaPanicsOnWrite(t *testing.T) {
	e := newWriteEntry[fakeWrite](0, fakeWrite{n: 1})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Delta on a write entry")
		}
	}()
	e.Delta()
}

// The pad must sit on Entry itself: Entry is always behind a pointer
// (newWriteEntry/newDeltaEntry), so it's what the allocator actually
// places in the heap, and what needs to be wide enough that two unrelated
// Entry objects can't share a cache line.
func TestEntry_IsAtLeastOneCacheLineWide(t *testing.T) {
	var e Entry[fakeWrite]
	if unsafe.Sizeof(e) < unsafe.Sizeof(cacheLinePad{}) {
		t.Fatalf("Entry is %d bytes, want at least %d", unsafe.Sizeof(e), unsafe.Sizeof(cacheLinePad{}))
	}
}

func TestEntry_CellIsStableAcrossFlagFlip(t *testing.T) {
	e := newWriteEntry[fakeWrite](3, fakeWrite{n: 42})
	e.markEstimate()
	inc, v := e.Write()
	if inc != 3 || v.n != 42 {
		t.Fatalf("cell mutated after flag flip: inc=%d v=%v", inc, v)
	}
}
