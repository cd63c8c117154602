package mvkv

import "lukechampine.com/uint128"

// Write is the transaction-write abstraction the MVKV consumes to resolve
// deltas stacked on top of a concrete write. The scheduler's concrete
// value type implements it; the MVKV never interprets a payload itself
// beyond calling these two methods.
type Write interface {
	// IsDeletion reports whether this write represents a deletion of the
	// access path (as opposed to a stored value).
	IsDeletion() bool

	// ToNumericBase projects the payload to its 128-bit aggregator base.
	// Callers must only invoke this when IsDeletion reports false; it
	// panics if the concrete value is present but not aggregator-shaped,
	// since only aggregator keys are ever read this way.
	ToNumericBase() uint128.Uint128
}
