package subquery

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// End implements the subquery-end executor.
type End struct {
	sourceRegister regmap.Register
	outRegister    regmap.Register

	accumulated []aqlvalue.Value
}

// NewEnd builds an End executor that gathers sourceRegister's values
// into an array written to outRegister.
func NewEnd(sourceRegister, outRegister regmap.Register) *End {
	return &End{sourceRegister: sourceRegister, outRegister: outRegister}
}

// ProduceRows implements engine.Executor. Data rows are accumulated;
// the first shadow row encountered is this End's matching boundary -
// the gathered array is written into it and its depth decremented by
// one (becoming a plain data row if it was exactly 1).
func (e *End) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, _ aqlcall.Call) (engine.ProduceResult, error) {
	for input.HasDataRow() {
		row := input.Current()

		if !row.IsShadowRow() {
			e.accumulated = append(e.accumulated, row.Block.Get(row.Index, e.sourceRegister).Clone())
			input.Advance()
			continue
		}

		newDepth := row.ShadowDepth() - 1
		output.CopyShadowRowWithDepth(row, newDepth)
		output.CloneValueInto(e.outRegister, row, aqlvalue.Array(e.accumulated))
		if err := output.AdvanceRow(); err != nil {
			return engine.ProduceResult{}, err
		}
		input.Advance()
		e.accumulated = nil
		if output.IsFull() {
			return engine.ProduceResult{State: engine.HasMore}, nil
		}
	}

	if input.UpstreamDone() {
		return engine.ProduceResult{State: engine.Done}, nil
	}

	call := aqlcall.Unlimited(false)
	return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &call}, nil
}

// SkipRowsRange implements engine.Executor via the shared scratch-block
// helper. The scratch block must be at least as wide as the shadow
// row's own registers (copied through verbatim) and the output
// register the gathered array is written to.
func (e *End) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	numRegisters := inputWidth(input)
	if int(e.outRegister)+1 > numRegisters {
		numRegisters = int(e.outRegister) + 1
	}
	return skipViaScratch(ctx, e.ProduceRows, input, numRegisters, call)
}
