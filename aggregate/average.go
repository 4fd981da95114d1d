package aggregate

import (
	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/aqlvalue"
)

// averageAgg implements AVERAGE: null for an empty/non-numeric group
// under lenient policy, otherwise the running mean.
type averageAgg struct {
	count int64
	sum   float64
}

func (a *averageAgg) Reset() {
	a.count = 0
	a.sum = 0
}

func (a *averageAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	f, ok := v.AsFloat()
	if !ok {
		return aqlerrors.Wrap(aqlerrors.ErrTypeMismatch, "AVERAGE: non-numeric value %v", v)
	}
	a.sum += f
	a.count++
	return nil
}

func (a *averageAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Null()
	if a.count > 0 {
		result = aqlvalue.Double(a.sum / float64(a.count))
	}
	a.Reset()
	return result
}
