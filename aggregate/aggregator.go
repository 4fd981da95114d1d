// Package aggregate implements the per-aggregator state objects of
// spec.md §4.5.5: SUM, LENGTH, MIN/MAX, AVERAGE, STDDEV/VARIANCE
// (population and sample), UNIQUE, SORTED_UNIQUE, COUNT_DISTINCT, and
// the bitwise aggregators, plus the registry that builds one aggregator
// instance per AggregateSpec per group.
//
// Grounded on the teacher's aggregates.go (_CountFunction, _MinFunction,
// _MaxFunction - reduce-over-slice shape) and functions/aggregates.go,
// generalized from "reduce a materialized slice" to "fold one Value at
// a time into persistent per-group state" as spec.md §4.5.5 requires.
package aggregate

import "github.com/arangodb/aql-engine/aqlvalue"

// Type enumerates the required aggregator kinds of spec.md §4.5.5.
type Type int

const (
	Length Type = iota
	CountAll
	Sum
	Min
	Max
	Average
	StddevPopulation
	StddevSample
	VariancePopulation
	VarianceSample
	Unique
	SortedUnique
	CountDistinct
	BitAnd
	BitOr
	BitXor
)

// Aggregator is a stateful reducer: reset, fold values one at a time,
// finalize into a single result Value and reset for the next group.
type Aggregator interface {
	Reset()
	Reduce(v aqlvalue.Value) error
	Finalize() aqlvalue.Value
}

// New builds a fresh Aggregator instance for the given type.
func New(t Type) Aggregator {
	switch t {
	case Length:
		return &lengthAgg{countAll: false}
	case CountAll:
		return &lengthAgg{countAll: true}
	case Sum:
		return &sumAgg{}
	case Min:
		return &minMaxAgg{wantMin: true}
	case Max:
		return &minMaxAgg{wantMin: false}
	case Average:
		return &averageAgg{}
	case StddevPopulation:
		return &varianceAgg{population: true, stddev: true}
	case StddevSample:
		return &varianceAgg{population: false, stddev: true}
	case VariancePopulation:
		return &varianceAgg{population: true}
	case VarianceSample:
		return &varianceAgg{population: false}
	case Unique:
		return newUniqueAgg(false)
	case SortedUnique:
		return newUniqueAgg(true)
	case CountDistinct:
		return &countDistinctAgg{seen: map[uint64][]aqlvalue.Value{}}
	case BitAnd:
		return &bitwiseAgg{op: bitAnd}
	case BitOr:
		return &bitwiseAgg{op: bitOr}
	case BitXor:
		return &bitwiseAgg{op: bitXor}
	default:
		return &lengthAgg{}
	}
}
