// Package subquery implements the Subquery Start and End executors of
// spec.md §4.6: Start duplicates each input row into a data row plus a
// depth+1 shadow row marking a new inner iteration; End accumulates
// rows until the matching shadow row and collapses them into an array,
// decrementing shadow depth by one. Paired Start/End instances form a
// matched-bracket structure in the plan tree.
//
// Grounded on the teacher's foreach.go (`child_scope := scope.Copy();
// child_scope.AppendVars(row_item); pool.RunScope(child_scope)` - one
// inner iteration context per outer row) and plugins/chain.go's
// per-query sub-scope isolation, for the "one nested iteration context
// per outer row" idea; the shadow-row bracket-matching discipline
// itself has no teacher analogue and is grounded directly on
// original_source/arangod/Aql/SubqueryEndExecutor.cpp.
package subquery

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/rowblock"
)

// Start implements the subquery-start executor.
type Start struct {
	pendingShadow bool
}

// NewStart builds a Start executor.
func NewStart() *Start { return &Start{} }

// ProduceRows implements engine.Executor. Shadow rows already present in
// the input (boundaries of an enclosing subquery this Start is nested
// inside) pass through unchanged; each data row is re-emitted once as a
// data row and once as a depth-1 shadow row carrying the same values.
func (s *Start) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, _ aqlcall.Call) (engine.ProduceResult, error) {
	for input.HasDataRow() {
		row := input.Current()

		if row.IsShadowRow() {
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

		if !s.pendingShadow {
			output.CopyRow(row)
			if err := output.AdvanceRow(); err != nil {
				return engine.ProduceResult{}, err
			}
			s.pendingShadow = true
			if output.IsFull() {
				return engine.ProduceResult{State: engine.HasMore}, nil
			}
		}

		output.CopyShadowRowWithDepth(row, 1)
		if err := output.AdvanceRow(); err != nil {
			return engine.ProduceResult{}, err
		}
		s.pendingShadow = false
		input.Advance()
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
// helper (see skip.go): a skip still needs Start's full data/shadow
// duplication logic run to keep the bracket structure consistent for
// whatever downstream observes next. Start passes whole rows through
// unchanged, so the scratch block must be as wide as whatever upstream
// is actually handing it.
func (s *Start) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	return skipViaScratch(ctx, s.ProduceRows, input, inputWidth(input), call)
}
