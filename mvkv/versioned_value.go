package mvkv

import (
	"sync"

	"github.com/google/btree"
)

const btreeDegree = 16

// slot is the item type stored in a VersionedValue's btree: a TxnIndex
// paired with the entry written at it. Entry itself carries the
// cache-line pad (entry.go), since it's Entry's flag field that's
// actually mutated under concurrent traversal.
type slot[V Write] struct {
	idx   TxnIndex
	entry *Entry[V]
}

func slotLess[V Write](a, b slot[V]) bool {
	return a.idx < b.idx
}

// VersionedValue is the per-key history: an ordered TxnIndex -> Entry
// mapping plus a flag recording whether any delta was ever inserted here.
// mu serializes structural mutation (insert/delete) and gates shared
// access for lookups and traversal; the Entry flag itself is read without
// holding mu beyond the RLock already needed to walk the btree safely.
type VersionedValue[V Write] struct {
	mu            sync.RWMutex
	entries       *btree.BTreeG[slot[V]]
	containsDelta bool
}

func newVersionedValue[V Write]() *VersionedValue[V] {
	return &VersionedValue[V]{
		entries: btree.NewG(btreeDegree, slotLess[V]),
	}
}

// insert replaces or inserts the entry at idx, returning the previous
// entry (if any). Caller must hold mu for writing.
func (vv *VersionedValue[V]) insert(idx TxnIndex, e *Entry[V]) (*Entry[V], bool) {
	prev, had := vv.entries.ReplaceOrInsert(slot[V]{idx: idx, entry: e})
	if !had {
		return nil, false
	}
	return prev.entry, true
}

// get looks up the entry at idx. Caller must hold mu (shared is enough).
func (vv *VersionedValue[V]) get(idx TxnIndex) (*Entry[V], bool) {
	s, ok := vv.entries.Get(slot[V]{idx: idx})
	if !ok {
		return nil, false
	}
	return s.entry, true
}

// delete removes the entry at idx. Caller must hold mu for writing.
func (vv *VersionedValue[V]) delete(idx TxnIndex) bool {
	_, had := vv.entries.Delete(slot[V]{idx: idx})
	return had
}

// descendBelow walks entries strictly below txnIdx in descending order,
// calling fn for each until it returns false or the history is exhausted.
// Caller must hold mu (shared is enough).
func (vv *VersionedValue[V]) descendBelow(txnIdx TxnIndex, fn func(idx TxnIndex, e *Entry[V]) bool) {
	if txnIdx == 0 {
		return
	}
	pivot := slot[V]{idx: txnIdx - 1}
	vv.entries.DescendLessOrEqual(pivot, func(s slot[V]) bool {
		return fn(s.idx, s.entry)
	})
}
