package aggregate

import (
	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/aqlvalue"
)

type bitwiseOp int

const (
	bitAnd bitwiseOp = iota
	bitOr
	bitXor
)

// bitwiseAgg implements BIT_AND, BIT_OR and BIT_XOR over integer
// values, spec.md §4.5.5.
type bitwiseAgg struct {
	op    bitwiseOp
	have  bool
	value int64
}

func (a *bitwiseAgg) Reset() {
	a.have = false
	a.value = 0
}

func (a *bitwiseAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	i, ok := v.AsInt()
	if !ok {
		return aqlerrors.Wrap(aqlerrors.ErrTypeMismatch, "bitwise aggregate: non-integer value %v", v)
	}
	if !a.have {
		a.value = i
		a.have = true
		return nil
	}
	switch a.op {
	case bitAnd:
		a.value &= i
	case bitOr:
		a.value |= i
	case bitXor:
		a.value ^= i
	}
	return nil
}

func (a *bitwiseAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Null()
	if a.have {
		result = aqlvalue.Int(a.value)
	}
	a.Reset()
	return result
}
