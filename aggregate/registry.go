package aggregate

import (
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engineconfig"
	"github.com/arangodb/aql-engine/regmap"
)

// Spec is AggregateSpec of spec.md §4.5: one output register, an
// optional input register (absent for LENGTH's count-all form), the
// aggregator kind and its type.
type Spec struct {
	OutRegister regmap.Register
	InRegister  regmap.Register // regmap.InvalidRegister if none
	Kind        Type
}

// GroupState is a group's vector of live aggregator instances, one per
// Spec, in the same order as the Registry's Specs.
type GroupState struct {
	aggs []Aggregator
}

// Registry builds GroupState instances for a list of Specs and applies
// the strict/lenient type-mismatch policy uniformly across all
// aggregators in a group (spec.md §9's open question, resolved as an
// explicit per-plan Config per SPEC_FULL.md).
type Registry struct {
	specs  []Spec
	policy engineconfig.AggregationPolicy
}

// NewRegistry builds a Registry for the given specs under policy.
func NewRegistry(specs []Spec, policy engineconfig.AggregationPolicy) *Registry {
	return &Registry{specs: specs, policy: policy}
}

// NewGroup allocates a fresh GroupState, one Aggregator per Spec.
func (r *Registry) NewGroup() *GroupState {
	aggs := make([]Aggregator, len(r.specs))
	for i, spec := range r.specs {
		aggs[i] = New(spec.Kind)
	}
	return &GroupState{aggs: aggs}
}

// Reduce folds one input row's values (addressed by each Spec's
// InRegister) into the group's aggregators. Under Lenient policy a
// TYPE_MISMATCH from an individual aggregator degrades that group's
// result to NULL for that aggregator without aborting the query
// (spec.md §7); under Strict it is returned to the caller as a fatal
// error.
func (r *Registry) Reduce(group *GroupState, row func(reg regmap.Register) aqlvalue.Value) error {
	for i, spec := range r.specs {
		var v aqlvalue.Value
		if spec.InRegister.IsValid() {
			v = row(spec.InRegister)
		}
		if err := group.aggs[i].Reduce(v); err != nil {
			if r.policy == engineconfig.Strict {
				return err
			}
			// Lenient: poison this aggregator's result to NULL by
			// replacing it with a fresh one that immediately
			// finalizes to NULL, without aborting the query.
			group.aggs[i] = &poisonedAgg{}
		}
	}
	return nil
}

// Finalize returns each Spec's finalized result in Spec order.
func (r *Registry) Finalize(group *GroupState) []aqlvalue.Value {
	results := make([]aqlvalue.Value, len(r.specs))
	for i, agg := range group.aggs {
		results[i] = agg.Finalize()
	}
	return results
}

// poisonedAgg always finalizes to NULL, used to degrade a group's
// aggregate result under the lenient type-mismatch policy.
type poisonedAgg struct{}

func (poisonedAgg) Reset()                          {}
func (poisonedAgg) Reduce(aqlvalue.Value) error      { return nil }
func (poisonedAgg) Finalize() aqlvalue.Value         { return aqlvalue.Null() }
