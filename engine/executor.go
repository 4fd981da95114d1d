package engine

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/rowblock"
)

// ProduceResult is what an Executor's ProduceRows returns: the new
// internal executor state, an optional upstream call it would like
// the driver to issue (nil if the input range already had everything
// it needed).
type ProduceResult struct {
	State        State
	UpstreamCall *aqlcall.Call
}

// SkipResult is what an Executor's SkipRowsRange returns: same shape as
// ProduceResult plus the count of rows it discarded.
type SkipResult struct {
	State        State
	Skipped      int64
	UpstreamCall *aqlcall.Call
}

// Executor is the operator-specific state and transform function
// invoked by the generic Driver (spec.md §4.3). Executors are pure
// with respect to the driver: they never pull from upstream
// themselves, only consume from the InputRange they are given and
// signal further need via the returned upstream call.
type Executor interface {
	// ProduceRows consumes from input and writes rows into output,
	// returning its new state and (optionally) the call it needs the
	// driver to issue upstream if it ran out of input before
	// satisfying output. call is the downstream's current ask (spec.md
	// §4.4's pushdown formula merges it with any limit the executor
	// tracks locally); executors with no local limit of their own are
	// free to ignore its Limit/FullCount fields.
	ProduceRows(ctx context.Context, input *InputRange, output *rowblock.OutputRow, call aqlcall.Call) (ProduceResult, error)

	// SkipRowsRange consumes from input without writing output,
	// counting rows, for the offset/full-count phases of spec.md §4.4.
	SkipRowsRange(ctx context.Context, input *InputRange, call aqlcall.Call) (SkipResult, error)
}
