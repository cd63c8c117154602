package mvkv

import "lukechampine.com/uint128"

// Delta is the commutative-numeric-update abstraction the MVKV stacks on
// top of a base write. Delta values are opaque to the MVKV: it only ever
// merges and applies them through this interface, never inspects them.
type Delta interface {
	// MergeOnto combines the receiver (applied later) on top of earlier,
	// producing a delta equivalent to applying earlier then the receiver.
	// Failure signals a delta-history conflict (e.g. incompatible bounds).
	MergeOnto(earlier Delta) (Delta, error)

	// ApplyTo applies the receiver to a numeric base, returning the
	// resulting aggregator value. Failure signals saturation (overflow or
	// underflow against the aggregator's configured limits).
	ApplyTo(base uint128.Uint128) (uint128.Uint128, error)
}
