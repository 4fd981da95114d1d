package aggregate

import (
	"sort"

	"github.com/arangodb/aql-engine/aqlvalue"
)

// uniqueAgg implements UNIQUE and SORTED_UNIQUE: both carry their own
// seen-set, keyed by Value.Hash with an Equal tiebreak for collisions
// (spec.md §4.5.5 "UNIQUE (carries its own set)").
type uniqueAgg struct {
	sorted bool
	seen   map[uint64][]aqlvalue.Value
	order  []aqlvalue.Value
}

func newUniqueAgg(sorted bool) *uniqueAgg {
	return &uniqueAgg{sorted: sorted, seen: map[uint64][]aqlvalue.Value{}}
}

func (a *uniqueAgg) Reset() {
	a.seen = map[uint64][]aqlvalue.Value{}
	a.order = nil
}

func (a *uniqueAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	h := aqlvalue.Hash(v)
	for _, existing := range a.seen[h] {
		if aqlvalue.Equal(existing, v) {
			return nil
		}
	}
	cloned := v.Clone()
	a.seen[h] = append(a.seen[h], cloned)
	a.order = append(a.order, cloned)
	return nil
}

func (a *uniqueAgg) Finalize() aqlvalue.Value {
	result := append([]aqlvalue.Value{}, a.order...)
	if a.sorted {
		sort.Slice(result, func(i, j int) bool {
			return aqlvalue.Compare(result[i], result[j]) < 0
		})
	}
	a.Reset()
	return aqlvalue.Array(result)
}

// countDistinctAgg implements COUNT_DISTINCT: same dedup discipline as
// uniqueAgg but finalizes to a count rather than an array.
type countDistinctAgg struct {
	seen  map[uint64][]aqlvalue.Value
	count int64
}

func (a *countDistinctAgg) Reset() {
	a.seen = map[uint64][]aqlvalue.Value{}
	a.count = 0
}

func (a *countDistinctAgg) Reduce(v aqlvalue.Value) error {
	if v.IsNull() {
		return nil
	}
	h := aqlvalue.Hash(v)
	for _, existing := range a.seen[h] {
		if aqlvalue.Equal(existing, v) {
			return nil
		}
	}
	a.seen[h] = append(a.seen[h], v.Clone())
	a.count++
	return nil
}

func (a *countDistinctAgg) Finalize() aqlvalue.Value {
	result := aqlvalue.Int(a.count)
	a.Reset()
	return result
}
