package aggregate

import "github.com/arangodb/aql-engine/aqlvalue"

// minMaxAgg implements MIN and MAX. Per spec.md §4.5.5, "MIN/MAX break
// ties by original-encounter order" - the first value seen that
// compares equal to the current extreme is kept, later ties are
// ignored (grounded on the teacher's aggregates.go _MinFunction /
// _MaxFunction, which keep the first value unless a strictly
// better one is found: `if result == nil || scope.Lt(value, result)`).
type minMaxAgg struct {
	wantMin bool
	have    bool
	best    aqlvalue.Value
}

func (a *minMaxAgg) Reset() {
	a.have = false
	a.best = aqlvalue.Value{}
}

func (a *minMaxAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	if !a.have {
		a.best = v.Clone()
		a.have = true
		return nil
	}
	c := aqlvalue.Compare(v, a.best)
	if (a.wantMin && c < 0) || (!a.wantMin && c > 0) {
		a.best = v.Clone()
	}
	return nil
}

func (a *minMaxAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Null()
	if a.have {
		result = a.best
	}
	a.Reset()
	return result
}
