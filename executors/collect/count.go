package collect

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// Count implements the collect executor of spec.md §4.5.1: collapses
// all input at the current subquery depth to a single output row whose
// one register holds the count, ignoring input content entirely.
type Count struct {
	outRegister regmap.Register
	count       int64
	done        bool
}

// NewCount builds a Count collect executor writing into outRegister.
func NewCount(outRegister regmap.Register) *Count {
	return &Count{outRegister: outRegister}
}

func (c *Count) emit(output *rowblock.OutputRow) error {
	var in rowblock.InputRow
	output.WriteInvalidInputRow()
	output.CloneValueInto(c.outRegister, in, aqlvalue.Int(c.count))
	return output.AdvanceRow()
}

// ProduceRows implements engine.Executor. The upstream call is always
// {offset: 0, limit: unbounded, fullCount} regardless of what downstream
// asked for: Count collect must consume everything to report an
// accurate count even if downstream only wants to know whether any rows
// exist.
func (c *Count) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, call aqlcall.Call) (engine.ProduceResult, error) {
	if c.done {
		return engine.ProduceResult{State: engine.Done}, nil
	}

	for input.HasDataRow() {
		row := input.Current()
		if row.IsShadowRow() {
			if err := c.emit(output); err != nil {
				return engine.ProduceResult{}, err
			}
			output.CopyRow(row)
			if err := output.AdvanceRow(); err != nil {
				return engine.ProduceResult{}, err
			}
			input.Advance()
			c.count = 0
			if output.IsFull() {
				return engine.ProduceResult{State: engine.HasMore}, nil
			}
			continue
		}
		c.count++
		input.Advance()
	}

	if input.UpstreamDone() {
		if err := c.emit(output); err != nil {
			return engine.ProduceResult{}, err
		}
		c.done = true
		return engine.ProduceResult{State: engine.Done}, nil
	}

	upstreamCall := aqlcall.Unlimited(call.FullCount)
	return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &upstreamCall}, nil
}

// SkipRowsRange implements engine.Executor: Count still has to consume
// everything up to a bracket's close to know its count, but only
// discards the first call.Offset closed brackets' count rows rather
// than every count row input has left - once the budget is spent, a
// later ProduceRows call emits the rest normally.
func (c *Count) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	if c.done {
		return engine.SkipResult{State: engine.Done}, nil
	}

	var skipped int64

	for input.HasDataRow() {
		row := input.Current()
		if row.IsShadowRow() {
			if skipped >= call.Offset {
				return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
			}
			skipped++
			input.Advance()
			c.count = 0
			continue
		}
		c.count++
		input.Advance()
	}

	if skipped >= call.Offset {
		return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
	}

	if input.UpstreamDone() {
		skipped++
		c.done = true
		return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
	}

	upstreamCall := aqlcall.Unlimited(call.FullCount)
	return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil
}
