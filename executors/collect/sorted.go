package collect

import (
	"context"

	"github.com/arangodb/aql-engine/aggregate"
	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/engineconfig"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// Sorted implements the streaming collect executor of spec.md §4.5.2:
// input is pre-sorted by the grouping columns, so at most one group is
// ever active, giving O(1) memory regardless of group count.
type Sorted struct {
	groupColumns []GroupColumn
	specs        []aggregate.Spec
	registry     *aggregate.Registry
	into         *IntoSpec

	haveGroup bool
	key       aqlvalue.GroupKey
	group     *aggregate.GroupState
	intoAcc   *intoAccumulator
	done      bool
}

// NewSorted builds a Sorted collect executor.
func NewSorted(groupColumns []GroupColumn, specs []aggregate.Spec, policy engineconfig.AggregationPolicy, into *IntoSpec) *Sorted {
	return &Sorted{
		groupColumns: groupColumns,
		specs:        specs,
		registry:     aggregate.NewRegistry(specs, policy),
		into:         into,
	}
}

func (s *Sorted) startGroup(key aqlvalue.GroupKey) {
	s.haveGroup = true
	s.key = key.Clone()
	s.group = s.registry.NewGroup()
	s.intoAcc = newIntoAccumulator(s.into)
}

func (s *Sorted) resetGroup() {
	s.haveGroup = false
	s.key = nil
	s.group = nil
	s.intoAcc = nil
}

func (s *Sorted) emitGroup(output *rowblock.OutputRow) error {
	results := s.registry.Finalize(s.group)
	return emitGroupRow(output, s.groupColumns, s.specs, results, s.key, s.into, s.intoAcc)
}

// ProduceRows implements engine.Executor.
func (s *Sorted) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, _ aqlcall.Call) (engine.ProduceResult, error) {
	if s.done {
		return engine.ProduceResult{State: engine.Done}, nil
	}

	for input.HasDataRow() {
		row := input.Current()

		if row.IsShadowRow() {
			if s.haveGroup {
				if err := s.emitGroup(output); err != nil {
					return engine.ProduceResult{}, err
				}
				s.resetGroup()
				if output.IsFull() {
					return engine.ProduceResult{State: engine.HasMore}, nil
				}
			}
			output.CopyRow(row)
			if err := output.AdvanceRow(); err != nil {
				return engine.ProduceResult{}, err
			}
			input.Advance()
			if output.IsFull() {
				return engine.ProduceResult{State: engine.HasMore}, nil
			}
			continue
		}

		key := keyFromRow(row, s.groupColumns)
		if !s.haveGroup {
			s.startGroup(key)
		} else if !s.key.Equal(key) {
			if err := s.emitGroup(output); err != nil {
				return engine.ProduceResult{}, err
			}
			s.resetGroup()
			s.startGroup(key)
		}

		if err := s.registry.Reduce(s.group, func(reg regmap.Register) aqlvalue.Value {
			return row.Block.Get(row.Index, reg)
		}); err != nil {
			return engine.ProduceResult{}, err
		}
		s.intoAcc.add(row)

		input.Advance()
		if output.IsFull() {
			return engine.ProduceResult{State: engine.HasMore}, nil
		}
	}

	if input.UpstreamDone() {
		if s.haveGroup {
			if err := s.emitGroup(output); err != nil {
				return engine.ProduceResult{}, err
			}
			s.resetGroup()
		}
		s.done = true
		return engine.ProduceResult{State: engine.Done}, nil
	}

	call := aqlcall.Unlimited(false)
	return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &call}, nil
}

// SkipRowsRange implements engine.Executor: folds rows exactly as
// ProduceRows does (a group's membership can only be known by folding
// it), but discards rather than emits the first call.Offset completed
// groups, stopping the instant that budget is spent rather than
// discarding every group input has left. The row that starts the next,
// not-to-be-discarded group is left unconsumed for the following
// ProduceRows call to fold and emit normally.
func (s *Sorted) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	if s.done {
		return engine.SkipResult{State: engine.Done}, nil
	}

	var skipped int64

	for skipped < call.Offset && input.HasDataRow() {
		row := input.Current()

		if row.IsShadowRow() {
			if s.haveGroup {
				s.resetGroup()
				skipped++
				if skipped >= call.Offset {
					return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
				}
			}
			input.Advance()
			continue
		}

		key := keyFromRow(row, s.groupColumns)
		if !s.haveGroup {
			s.startGroup(key)
		} else if !s.key.Equal(key) {
			s.resetGroup()
			skipped++
			if skipped >= call.Offset {
				// row starts the next group; leave it for the next
				// call to fold instead of discarding it here too.
				return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
			}
			s.startGroup(key)
		}

		if err := s.registry.Reduce(s.group, func(reg regmap.Register) aqlvalue.Value {
			return row.Block.Get(row.Index, reg)
		}); err != nil {
			return engine.SkipResult{}, err
		}
		s.intoAcc.add(row)
		input.Advance()
	}

	if skipped >= call.Offset {
		return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
	}

	if input.UpstreamDone() {
		if s.haveGroup {
			s.resetGroup()
			skipped++
		}
		s.done = true
		return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
	}

	upstreamCall := aqlcall.Unlimited(false)
	return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil
}
