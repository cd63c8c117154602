package mvkv

import "sync/atomic"

// Flag is the observable state of an Entry's writer: either it holds a
// settled write/delta (Done), or its writer is currently re-executing and
// the slot must be treated as a pending dependency (Estimate).
type Flag uint32

const (
	FlagDone Flag = iota
	FlagEstimate
)

func (f Flag) String() string {
	if f == FlagEstimate {
		return "estimate"
	}
	return "done"
}

// cellKind tags which variant a cell holds. Go has no sum types, so the
// cell is represented as a kind tag plus the fields relevant to that kind,
// mirroring the original Rust EntryCell<V> enum.
type cellKind uint8

const (
	cellKindWrite cellKind = iota
	cellKindDelta
)

type cell[V Write] struct {
	kind        cellKind
	incarnation Incarnation // valid when kind == cellKindWrite
	write       V           // valid when kind == cellKindWrite
	delta       Delta       // valid when kind == cellKindDelta
}

// Entry is a single versioned record for one (key, txn index) slot. Its
// flag is the only mutable field; the cell is fixed at construction and
// never changes (I2 in spec.md §3). The trailing pad is what actually
// stops a writer's flag flip here from invalidating a neighboring slot's
// cache line during a reader's traversal: each Entry is heap-allocated on
// its own (see newWriteEntry/newDeltaEntry), so the pad has to live on
// Entry itself, not on whatever merely points to it.
type Entry[V Write] struct {
	flag atomic.Uint32
	cell cell[V]
	_    cacheLinePad
}

// newWriteEntry constructs a Done entry holding a concrete write.
func newWriteEntry[V Write](incarnation Incarnation, value V) *Entry[V] {
	e := &Entry[V]{
		cell: cell[V]{kind: cellKindWrite, incarnation: incarnation, write: value},
	}
	e.flag.Store(uint32(FlagDone))
	return e
}

// newDeltaEntry constructs a Done entry holding a delta.
func newDeltaEntry[V Write](delta Delta) *Entry[V] {
	e := &Entry[V]{
		cell: cell[V]{kind: cellKindDelta, delta: delta},
	}
	e.flag.Store(uint32(FlagDone))
	return e
}

// Flag loads the entry's current flag with sequentially-consistent
// ordering, as required so that a concurrent mark-estimate and a reader
// traversing this slot agree on a single total order of events.
func (e *Entry[V]) Flag() Flag {
	return Flag(e.flag.Load())
}

// markEstimate atomically flips the entry's flag to Estimate.
func (e *Entry[V]) markEstimate() {
	e.flag.Store(uint32(FlagEstimate))
}

// IsWrite reports whether this entry's cell is a concrete write.
func (e *Entry[V]) IsWrite() bool {
	return e.cell.kind == cellKindWrite
}

// Write returns the entry's incarnation and value. Panics if the entry is
// a delta; callers must check IsWrite first.
func (e *Entry[V]) Write() (Incarnation, V) {
	if e.cell.kind != cellKindWrite {
		panic("mvkv: Write called on a delta entry")
	}
	return e.cell.incarnation, e.cell.write
}

// Delta returns the entry's delta. Panics if the entry is a write; callers
// must check IsWrite first.
func (e *Entry[V]) Delta() Delta {
	if e.cell.kind != cellKindDelta {
		panic("mvkv: Delta called on a write entry")
	}
	return e.cell.delta
}
