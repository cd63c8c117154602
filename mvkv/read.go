package mvkv

import "go.uber.org/zap"

// deltaAccumulator tracks the in-progress fold over a run of Delta entries
// encountered during a descending traversal: either nothing seen yet, a
// successfully merged delta, or a merge failure that's sticky but
// overridable by a later (lower-index) deletion or base write.
type deltaAccumulator struct {
	state accState
	delta Delta
}

type accState uint8

const (
	accNone accState = iota
	accOk
	accErr
)

// Read returns the most recent write or resolved delta visible to a
// reader at txnIdx: the value produced by some index strictly below
// txnIdx, folding any deltas stacked on top of a base write.
//
// Traversal descends from txnIdx-1. The first Estimate flag encountered
// aborts the read immediately with a dependency on that index — no later
// (lower-index) entry is examined, since the scheduler must re-run this
// reader once that transaction settles. Deltas accumulate via MergeOnto
// until a base write is found, at which point the accumulated delta is
// applied (ApplyTo) to the base projected by ToNumericBase, unless the
// write denotes a deletion (which always wins over a prior accumulation
// error: a speculative overflow stacked above a deletion is semantically
// void).
func (m *MVKV[K, V]) Read(key K, txnIdx TxnIndex) (Outcome[V], error) {
	vv, ok := m.data.Get(key)
	if !ok {
		return Outcome[V]{}, ErrNotFound
	}

	var acc deltaAccumulator
	var out Outcome[V]
	var readErr error
	found := false

	vv.mu.RLock()
	vv.descendBelow(txnIdx, func(idx TxnIndex, e *Entry[V]) bool {
		if e.Flag() == FlagEstimate {
			m.logger.Debug("read hit dependency", zap.Uint64("txn", uint64(idx)))
			readErr = &DependencyError{Index: idx}
			found = true
			return false
		}

		if e.IsWrite() {
			incarnation, data := e.Write()
			version := Version{TxnIndex: idx, Incarnation: incarnation}

			if acc.state == accNone {
				out = Outcome[V]{Kind: OutcomeVersion, Version: version, Data: data}
				found = true
				return false
			}

			if data.IsDeletion() {
				out = Outcome[V]{Kind: OutcomeVersion, Version: version, Data: data}
				found = true
				return false
			}

			if acc.state == accErr {
				m.logger.Debug("read: delta failure below base write", zap.Uint64("txn", uint64(idx)))
				readErr = ErrDeltaApplicationFailure
				found = true
				return false
			}

			base := data.ToNumericBase()
			resolved, err := acc.delta.ApplyTo(base)
			if err != nil {
				readErr = ErrDeltaApplicationFailure
				found = true
				return false
			}
			out = Outcome[V]{Kind: OutcomeResolved, Resolved: resolved}
			found = true
			return false
		}

		// Delta entry.
		delta := e.Delta()
		switch acc.state {
		case accNone:
			acc.state = accOk
			acc.delta = delta
		case accOk:
			merged, err := acc.delta.MergeOnto(delta)
			if err != nil {
				acc.state = accErr
				acc.delta = nil
			} else {
				acc.delta = merged
			}
		case accErr:
			// Sticky error; keep traversing in case a later deletion or
			// base write supersedes it.
		}
		return true
	})
	vv.mu.RUnlock()

	if found {
		return out, readErr
	}

	switch acc.state {
	case accOk:
		return Outcome[V]{}, &UnresolvedError{Delta: acc.delta}
	case accErr:
		return Outcome[V]{}, ErrDeltaApplicationFailure
	default:
		return Outcome[V]{}, ErrNotFound
	}
}
