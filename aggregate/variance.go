package aggregate

import (
	"math"

	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/aqlvalue"
)

// varianceAgg implements VARIANCE_POPULATION, VARIANCE_SAMPLE,
// STDDEV_POPULATION and STDDEV_SAMPLE via Welford's online algorithm,
// to avoid the numerical instability of a naive sum-of-squares formula
// across arbitrarily long groups.
type varianceAgg struct {
	population bool
	stddev     bool

	count int64
	mean  float64
	m2    float64
}

func (a *varianceAgg) Reset() {
	a.count = 0
	a.mean = 0
	a.m2 = 0
}

func (a *varianceAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	f, ok := v.AsFloat()
	if !ok {
		return aqlerrors.Wrap(aqlerrors.ErrTypeMismatch, "VARIANCE: non-numeric value %v", v)
	}
	a.count++
	delta := f - a.mean
	a.mean += delta / float64(a.count)
	delta2 := f - a.mean
	a.m2 += delta * delta2
	return nil
}

func (a *varianceAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Null()
	denom := a.count
	if !a.population {
		denom--
	}
	if denom > 0 {
		variance := a.m2 / float64(denom)
		if a.stddev {
			result = aqlvalue.Double(math.Sqrt(variance))
		} else {
			result = aqlvalue.Double(variance)
		}
	}
	a.Reset()
	return result
}
