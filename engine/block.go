// Package engine defines the Block and Executor interfaces every plan
// operator implements, and the three-state pull protocol (WAITING /
// HASMORE / DONE) that connects them (spec.md §2, §4.3).
//
// Grounded on the teacher's types/stored_query.go (StoredQuery.Eval,
// the single-upstream pull shape) and scope/dispatcher.go's dispatch
// loop, generalized from a channel-pull model to an explicit
// suspend/resume state machine per spec.md §2 ("WAITING propagates
// upward, downstream must preserve call and resume later").
package engine

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/rowblock"
	"github.com/arangodb/aql-engine/stats"
)

// State is the scheduler-level suspend signal returned by Execute,
// distinct from an Executor's internal {HASMORE, DONE} state (spec.md
// §3 "Executor State").
type State int

const (
	// Waiting means a suspension point (async executor or remote
	// source) has not yet produced a result; the caller must preserve
	// its call and retry later without discarding in-flight output.
	Waiting State = iota
	// HasMore means rows were returned and more may follow.
	HasMore
	// Done means no more rows will ever be returned by this block.
	Done
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case HasMore:
		return "HASMORE"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Block is one plan node's executor instance. Execute is driven
// recursively: a block pulls from its own dependency block(s) via a
// Fetcher, assembles an output Block via rowblock.OutputRow, and
// returns to its caller.
type Block interface {
	// Execute advances the block by one driver iteration given the
	// current call stack, returning the new scheduler state, the skip
	// counts accumulated at each subquery depth, the produced row
	// block (nil if none), and an error (see aqlerrors for the
	// taxonomy).
	Execute(ctx context.Context, stack *aqlcall.Stack) (State, aqlcall.SkipResult, *rowblock.Block, error)

	// InitializeCursor resets any internal executor state for a fresh
	// run (e.g. a re-run after a subquery restarts iteration).
	InitializeCursor(ctx context.Context) error

	// Dependencies returns this block's upstream children, for
	// teardown in reverse topological order (spec.md §7).
	Dependencies() []Block
}

// ExecuteResult bundles what ProduceRows/SkipRowsRange and Execute
// return in common, to keep the driver's merge logic in one shape.
type ExecuteResult struct {
	State        State
	Stats        stats.ExecutionStats
	UpstreamCall *aqlcall.Call // non-nil when the executor needs more upstream rows
}
