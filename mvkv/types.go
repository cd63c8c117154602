package mvkv

import "fmt"

// TxnIndex is the position of a transaction within the batch being executed.
type TxnIndex uint64

// Incarnation is the re-execution attempt number for a given TxnIndex.
// Strictly monotonic per index: a transaction's second incarnation is 1,
// its third is 2, and so on.
type Incarnation uint64

// Version identifies a specific write: the transaction that produced it and
// which of that transaction's incarnations produced it.
type Version struct {
	TxnIndex    TxnIndex
	Incarnation Incarnation
}

func (v Version) String() string {
	return fmt.Sprintf("(%d,%d)", v.TxnIndex, v.Incarnation)
}

// Key is the constraint on the MVKV's access-path type. Stringer is
// required so the top-level map can shard keys without knowing anything
// about their concrete encoding.
type Key interface {
	comparable
	fmt.Stringer
}
