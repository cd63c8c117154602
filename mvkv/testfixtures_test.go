package mvkv_test

import (
	"errors"
	"fmt"

	"lukechampine.com/uint128"

	"mvkv/mvkv"
)

// stringKey is the simplest possible access-path type: a plain string
// wrapped so it satisfies mvkv.Key (comparable + fmt.Stringer).
type stringKey string

func (k stringKey) String() string { return string(k) }

// numericValue is a Write whose payload is either a stored u128 or a
// deletion marker.
type numericValue struct {
	deleted bool
	base    uint128.Uint128
}

func value(n uint64) numericValue           { return numericValue{base: uint128.From64(n)} }
func valueU128(u uint128.Uint128) numericValue { return numericValue{base: u} }
func deletion() numericValue                { return numericValue{deleted: true} }

func (v numericValue) IsDeletion() bool { return v.deleted }

func (v numericValue) ToNumericBase() uint128.Uint128 {
	if v.deleted {
		panic("mvkv_test: ToNumericBase called on a deletion")
	}
	return v.base
}

func (v numericValue) String() string {
	if v.deleted {
		return "<deleted>"
	}
	return fmt.Sprintf("%d", v.base)
}

// errOverflow / errHistory are the failure conditions addDelta's algebra
// can signal, standing in for the external delta-algebra collaborator's
// saturation/history-violation errors.
var (
	errOverflow = errors.New("mvkv_test: delta overflow")
	errHistory  = errors.New("mvkv_test: delta history violation")
)

// addDelta is a minimal add Delta fixture: it merges by simple addition,
// and ApplyTo returns errOverflow (rather than wrapping or clamping) when
// the result would exceed uint128's maximum.
type addDelta struct {
	amount uint128.Uint128
	// failMerge/failApply let tests force the "sticky error, continue
	// traversal" path deterministically instead of constructing a delta
	// magnitude that happens to overflow.
	failMerge bool
	failApply bool
}

func add(n uint64) addDelta { return addDelta{amount: uint128.From64(n)} }

func (d addDelta) MergeOnto(earlier mvkv.Delta) (mvkv.Delta, error) {
	if d.failMerge {
		return nil, errHistory
	}
	e, ok := earlier.(addDelta)
	if !ok {
		return nil, fmt.Errorf("mvkv_test: merge against foreign delta type")
	}
	sum := d.amount.Add(e.amount)
	return addDelta{amount: sum, failApply: d.failApply || e.failApply}, nil
}

func (d addDelta) ApplyTo(base uint128.Uint128) (uint128.Uint128, error) {
	if d.failApply {
		return uint128.Zero, errOverflow
	}
	headroom := uint128.Max.Sub(base)
	if d.amount.Cmp(headroom) > 0 {
		return uint128.Zero, errOverflow
	}
	return base.Add(d.amount), nil
}
