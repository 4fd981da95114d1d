package aggregate

import (
	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/aqlvalue"
)

// sumAgg implements SUM. Per spec.md §4.5.5, "SUM over mixed
// integer/double promotes to double on first non-integer
// contribution". Non-numeric input is a type mismatch, reported to the
// registry so it can apply the strict/lenient policy.
type sumAgg struct {
	isDouble  bool
	intSum    int64
	doubleSum float64
	any       bool
}

func (a *sumAgg) Reset() {
	a.isDouble = false
	a.intSum = 0
	a.doubleSum = 0
	a.any = false
}

func (a *sumAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	a.any = true

	if i, ok := v.AsInt(); ok {
		if a.isDouble {
			a.doubleSum += float64(i)
		} else {
			a.intSum += i
		}
		return nil
	}
	if d, ok := v.AsDouble(); ok {
		if !a.isDouble {
			a.doubleSum = float64(a.intSum)
			a.isDouble = true
		}
		a.doubleSum += d
		return nil
	}
	return aqlerrors.Wrap(aqlerrors.ErrTypeMismatch, "SUM: non-numeric value %v", v)
}

func (a *sumAgg) Finalize() aqlvalue.Value {
	var result aqlvalue.Value
	switch {
	case !a.any:
		result = aqlvalue.Null()
	case a.isDouble:
		result = aqlvalue.Double(a.doubleSum)
	default:
		result = aqlvalue.Int(a.intSum)
	}
	a.Reset()
	return result
}
