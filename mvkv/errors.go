package mvkv

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when no entry exists at any index below
// the reader's index, and no delta was seen either.
var ErrNotFound = errors.New("mvkv: no prior entry")

// ErrDeltaApplicationFailure is returned by Read when a delta merge or
// apply failed and no later deletion overrides it.
var ErrDeltaApplicationFailure = errors.New("mvkv: delta application failed")

// DependencyError is returned by Read when traversal crosses a slot still
// flagged Estimate: the caller must wait for that transaction before
// retrying.
type DependencyError struct {
	Index TxnIndex
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("mvkv: dependency on transaction %d", e.Index)
}

// UnresolvedError is returned by Read when deltas were seen but no base
// write appears anywhere below the reader's index; the caller must resolve
// the accumulated delta against persistent storage.
type UnresolvedError struct {
	Delta Delta
}

func (e *UnresolvedError) Error() string {
	return "mvkv: unresolved delta, no base write in batch"
}

// AsDependency reports whether err is a dependency error and, if so,
// returns the blocking transaction index.
func AsDependency(err error) (TxnIndex, bool) {
	var dep *DependencyError
	if errors.As(err, &dep) {
		return dep.Index, true
	}
	return 0, false
}

// AsUnresolved reports whether err is an unresolved-delta error and, if so,
// returns the accumulated delta.
func AsUnresolved(err error) (Delta, bool) {
	var unresolved *UnresolvedError
	if errors.As(err, &unresolved) {
		return unresolved.Delta, true
	}
	return nil, false
}
