package aggregate

import "github.com/arangodb/aql-engine/aqlvalue"

// lengthAgg implements LENGTH (count non-null) and COUNT (count-all),
// spec.md §4.5.5.
type lengthAgg struct {
	countAll bool
	count    int64
}

func (a *lengthAgg) Reset() { a.count = 0 }

func (a *lengthAgg) Reduce(v aqlvalue.Value) error {
	if a.countAll || !v.IsNull() {
		a.count++
	}
	return nil
}

func (a *lengthAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Int(a.count)
	a.Reset()
	return result
}
