// Package async implements the async executor of spec.md §4.7: a
// engine.Block that decouples one upstream subtree from the caller's
// thread, allowing pipelined parallelism between independent plan
// fragments while exposing at most one outstanding result at a time.
//
// Grounded on the teacher's foreach.go worker-pool dispatch shape
// (`newWorkerPool`/`runQuery`, one background goroutine consuming an
// upstream source while the caller moves on) for the decoupling idea,
// generalized from a channel-fed goroutine to the suspend/resume
// {Empty,InProgress,GotResult,GotException} state machine spec.md §4.7
// requires; that state machine itself has no teacher analogue and is
// grounded on original_source/arangod/Aql/ExecutionBlockImpl.cpp's
// async-execute handling.
package async

import (
	"context"
	"sync"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/enginestate"
	"github.com/arangodb/aql-engine/rowblock"
)

type phase int

const (
	empty phase = iota
	inProgress
	gotResult
	gotException
)

type storedResult struct {
	state engine.State
	skip  aqlcall.SkipResult
	block *rowblock.Block
}

// Executor wraps upstream, running its Execute calls on the shared
// scheduler instead of the caller's goroutine.
type Executor struct {
	name     string
	upstream engine.Block
	shared   *enginestate.SharedQueryState
	killed   func() bool

	mu       sync.Mutex
	phase    phase
	result   storedResult
	err      error
	observed bool
}

// New builds an Executor wrapping upstream. shared coordinates
// background execution and wakeups; killed polls query cancellation
// (nil means never killed).
func New(name string, upstream engine.Block, shared *enginestate.SharedQueryState, killed func() bool) *Executor {
	if killed == nil {
		killed = func() bool { return false }
	}
	return &Executor{name: name, upstream: upstream, shared: shared, killed: killed}
}

// Dependencies implements engine.Block.
func (a *Executor) Dependencies() []engine.Block { return []engine.Block{a.upstream} }

// InitializeCursor implements engine.Block: resets the state machine
// for a fresh run. A stored exception is kept when this executor was
// observed (had Execute called on it) since it was built or last
// re-initialized - including the Execute call that started the failing
// run - so the re-initialized cursor still surfaces it on its first
// Execute call; otherwise it is discarded.
func (a *Executor) InitializeCursor(ctx context.Context) error {
	a.mu.Lock()
	keepErr := a.observed && a.phase == gotException
	if !keepErr {
		a.err = nil
		a.phase = empty
	}
	a.observed = false
	a.result = storedResult{}
	a.mu.Unlock()
	return a.upstream.InitializeCursor(ctx)
}

// Execute implements engine.Block per spec.md §4.7's state contract.
func (a *Executor) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	if a.killed() {
		return engine.Waiting, aqlcall.NewSkipResult(), nil, aqlerrors.Wrap(aqlerrors.ErrQueryKilled, "%s: query killed", a.name)
	}

	a.mu.Lock()
	a.observed = true
	current := a.phase

	switch current {
	case empty:
		a.phase = inProgress
		callStack := stack.Clone()
		a.mu.Unlock()

		if a.shared.AsyncExecuteAndWakeup(func() { a.runUpstream(ctx, callStack) }) {
			return engine.Waiting, aqlcall.NewSkipResult(), nil, nil
		}
		// Scheduler capacity exhausted: run inline right now.
		a.runUpstream(ctx, callStack)
		return a.takeResult()

	case inProgress:
		a.mu.Unlock()
		return engine.Waiting, aqlcall.NewSkipResult(), nil, nil

	case gotResult, gotException:
		a.mu.Unlock()
		return a.takeResult()
	}

	a.mu.Unlock()
	return engine.Waiting, aqlcall.NewSkipResult(), nil, aqlerrors.Wrap(aqlerrors.ErrInternal, "%s: unreachable async phase", a.name)
}

// takeResult consumes whatever is currently stored: a GotResult of
// DONE is kept (re-returned on every subsequent call, per spec.md
// §4.7: "unless the stored result is DONE, in which case remain and
// keep returning it"); a GotException likewise keeps rethrowing until
// InitializeCursor clears it; any other result resets to Empty so the
// next Execute call starts a fresh background pull.
func (a *Executor) takeResult() (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.phase {
	case gotException:
		return engine.Waiting, aqlcall.NewSkipResult(), nil, a.err
	case gotResult:
		res := a.result
		if res.state != engine.Done {
			a.phase = empty
			a.result = storedResult{}
		}
		return res.state, res.skip, res.block, nil
	default:
		return engine.Waiting, aqlcall.NewSkipResult(), nil, nil
	}
}

// runUpstream performs the background upstream pull and stores its
// outcome, then wakes the consumer. Any Execute calls that arrived
// while this was in progress just observed InProgress and returned
// Waiting without side effects, so there is nothing for this task to
// replay on their behalf; storing the result and waking once is
// sufficient for the next Execute call to pick it up through
// takeResult - unlike a condition-variable wait, SharedQueryState's
// wakeup is a direct, mutex-serialized callback invocation, so a
// wakeup arriving while this task still holds a.mu cannot be missed
// the way a bare signal/wait race could lose one.
func (a *Executor) runUpstream(ctx context.Context, stack *aqlcall.Stack) {
	if !a.shared.Valid() {
		return
	}

	state, skip, block, err := a.upstream.Execute(ctx, stack)

	a.shared.ExecuteAndWakeup(func() bool {
		a.mu.Lock()
		if err != nil {
			a.phase = gotException
			a.err = err
		} else {
			a.phase = gotResult
			a.result = storedResult{state: state, skip: skip, block: block}
		}
		a.mu.Unlock()
		return true
	})
}
