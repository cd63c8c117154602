// Package mvkv implements a multi-version concurrent key-value map (MVKV)
// for use by an optimistic parallel transaction executor.
//
// Writes are recorded per (key, transaction index, incarnation). A read at
// index i returns the most recent write produced by some index strictly
// below i, resolving any stacked deltas on top of it, and reports a
// dependency if it crosses a slot still flagged as a speculative estimate.
//
// The map itself never blocks and never spawns background work: callers
// (the scheduler) own re-execution, validation and cleanup.
package mvkv
