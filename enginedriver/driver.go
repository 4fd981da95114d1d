// Package enginedriver implements the generic per-operator loop of
// spec.md §4.3: for each block type, a uniform driver calls the
// executor, pulls upstream through a fetcher only when the executor
// ran dry, propagates WAITING without discarding in-flight output, and
// validates shadow-row consistency in debug builds.
//
// Grounded on the teacher's scope/dispatcher.go protocol-search dispatch
// shape and vfilter_group.go's EvalGroupBy orchestration (build actor,
// pull per row, merge/replay); the WAITING suspend/resume step has no
// direct teacher analogue (vfilter blocks on channel receive) and is
// grounded on original_source/arangod/Aql/SharedQueryState.h instead.
package enginedriver

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/enginelog"
	"github.com/arangodb/aql-engine/fetcher"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// KillSwitch is polled at every block's entry into Execute (spec.md
// §5). A query-kill flag is a simple function so callers (tests,
// enginestate.SharedQueryState) can wire arbitrary cancellation
// sources.
type KillSwitch func() bool

// Driver wraps a single Executor plus its upstream fetcher, presenting
// the engine.Block interface to its own downstream.
type Driver struct {
	name     string
	executor engine.Executor
	upstream *fetcher.InputRangeFetcher
	regInfos *regmap.RegisterInfos
	tracer   enginelog.Tracer
	killed   KillSwitch

	debugValidate bool

	accumulatedSkip aqlcall.SkipResult
}

// New builds a Driver for executor, pulling from upstream via an
// InputRangeFetcher, building output blocks per regInfos.
func New(name string, executor engine.Executor, upstream engine.Block, regInfos *regmap.RegisterInfos, tracer enginelog.Tracer, killed KillSwitch) *Driver {
	if tracer == nil {
		tracer = enginelog.NopTracer{}
	}
	if killed == nil {
		killed = func() bool { return false }
	}
	return &Driver{
		name:            name,
		executor:        executor,
		upstream:        fetcher.NewInputRangeFetcher(upstream),
		regInfos:        regInfos,
		tracer:          tracer,
		killed:          killed,
		accumulatedSkip: aqlcall.NewSkipResult(),
	}
}

// WithDebugValidation turns on shadow-row consistency validation on
// every produced block (spec.md §4.3 step 6), meant for test builds.
func (d *Driver) WithDebugValidation() *Driver {
	d.debugValidate = true
	return d
}

// Dependencies satisfies engine.Block by exposing nothing further; the
// concrete upstream block is reachable only through the fetcher, which
// mirrors how the teacher's StoredQuery wraps its upstream channel
// opaquely. Callers that need the dependency tree for teardown should
// track it alongside block construction instead.
func (d *Driver) Dependencies() []engine.Block { return nil }

// InitializeCursor resets the fetcher and accumulated skip state.
func (d *Driver) InitializeCursor(ctx context.Context) error {
	d.accumulatedSkip = aqlcall.NewSkipResult()
	return d.upstream.InitializeCursor(ctx)
}

// Execute implements the driver loop of spec.md §4.3.
func (d *Driver) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	d.tracer.TraceExecuteBegin(d.name, stack)

	if d.killed() {
		err := aqlerrors.Wrap(aqlerrors.ErrQueryKilled, "%s: query killed", d.name)
		d.tracer.TraceExecuteEnd(d.name, engine.Waiting, err)
		return engine.Waiting, d.accumulatedSkip, nil, err
	}

	call := stack.Top()
	output := rowblock.New(d.regInfos, rowblock.DefaultMaxBlockSize)

	for {
		rng := d.upstream.Range()

		var (
			state        engine.State
			upstreamCall *aqlcall.Call
			err          error
		)

		if call.Offset > 0 {
			var skipRes engine.SkipResult
			skipRes, err = d.executor.SkipRowsRange(ctx, rng, call)
			if err == nil {
				state = skipRes.State
				upstreamCall = skipRes.UpstreamCall
				d.accumulatedSkip.DidSkip(skipRes.Skipped)
				remaining := call.Offset - skipRes.Skipped
				if remaining < 0 {
					remaining = 0
				}
				call.Offset = remaining
				stack.SetTop(call)
			}
		} else {
			var produceRes engine.ProduceResult
			produceRes, err = d.executor.ProduceRows(ctx, rng, output, call)
			if err == nil {
				state = produceRes.State
				upstreamCall = produceRes.UpstreamCall
			}
		}

		if err != nil {
			d.tracer.TraceExecuteEnd(d.name, engine.Waiting, err)
			return engine.Waiting, d.accumulatedSkip, nil, err
		}

		if upstreamCall != nil && rng.Exhausted() && !rng.UpstreamDone() {
			upstreamStack := stack.Clone()
			upstreamStack.SetTop(*upstreamCall)

			upstreamState, upstreamSkip, pullErr := d.upstream.Execute(ctx, upstreamStack)
			if pullErr != nil {
				d.tracer.TraceExecuteEnd(d.name, engine.Waiting, pullErr)
				return engine.Waiting, d.accumulatedSkip, nil, pullErr
			}
			d.accumulatedSkip.Merge(upstreamSkip)

			if upstreamState == engine.Waiting {
				// Propagate WAITING without discarding in-flight
				// output: the caller must resume by calling Execute
				// again with the same stack.
				d.tracer.TraceExecuteEnd(d.name, engine.Waiting, nil)
				return engine.Waiting, d.accumulatedSkip, nil, nil
			}
			// Loop: re-invoke the executor now that more input (or a
			// confirmed DONE) is available.
			continue
		}

		if state == engine.Done {
			// DONE is authoritative even if rng still holds unconsumed
			// rows: an executor that reaches its cap (e.g. Limit) is
			// free to stop short of draining the current range.
			block := output.StealBlock()
			if d.debugValidate {
				if verr := block.ValidateShadowRows(); verr != nil {
					err = aqlerrors.Wrap(aqlerrors.ErrInvalidFormat, "%s: %v", d.name, verr)
					d.tracer.TraceExecuteEnd(d.name, engine.Waiting, err)
					return engine.Waiting, d.accumulatedSkip, nil, err
				}
			}
			d.tracer.TraceExecuteEnd(d.name, engine.Done, nil)
			return engine.Done, d.accumulatedSkip, block, nil
		}

		if output.IsFull() || (state == engine.HasMore && rng.Exhausted()) {
			block := output.StealBlock()
			if d.debugValidate {
				if verr := block.ValidateShadowRows(); verr != nil {
					err = aqlerrors.Wrap(aqlerrors.ErrInvalidFormat, "%s: %v", d.name, verr)
					d.tracer.TraceExecuteEnd(d.name, engine.Waiting, err)
					return engine.Waiting, d.accumulatedSkip, nil, err
				}
			}
			d.tracer.TraceExecuteEnd(d.name, state, nil)
			return engine.HasMore, d.accumulatedSkip, block, nil
		}
		// Otherwise loop: the executor has more to give from the
		// current input range.
	}
}
