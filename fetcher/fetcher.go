// Package fetcher implements the upstream adapters of spec.md §4.2: a
// thin single-upstream bridge that caches one in-flight batch and
// advances an index within it, never retrying, buffering multiple
// blocks, or reordering.
//
// Grounded on the teacher's types/stored_query.go (StoredQuery.Eval,
// the one-channel-per-upstream pull shape) and foreach.go's
// `row_chan := scope.Iterate(ctx, arg.Row)` single-advance consumption
// loop, adapted from channel receive to the explicit call/state
// protocol of spec.md §2.
package fetcher

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
)

// Fetcher is the common shape of both fetcher flavors: pull from a
// single upstream Block, caching one block's worth of rows.
type Fetcher struct {
	upstream engine.Block
	cached   engine.InputRange
	have     bool
}

// New wraps upstream.
func New(upstream engine.Block) *Fetcher {
	return &Fetcher{upstream: upstream}
}

// Execute pulls from upstream exactly once if no cached range remains
// (or the cached range is exhausted), returning the upstream skip
// result as it came. It never retries beyond the single upstream call;
// callers loop by calling Execute again with an updated stack if they
// need more.
func (f *Fetcher) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, error) {
	if f.have && !f.cached.Exhausted() {
		return engine.HasMore, aqlcall.NewSkipResult(), nil
	}

	state, skip, block, err := f.upstream.Execute(ctx, stack)
	if err != nil {
		return engine.Waiting, skip, err
	}

	f.cached = engine.NewInputRange(block, state == engine.Done)
	f.have = true

	return state, skip, nil
}

// Range returns the currently cached InputRange for an executor to
// consume from.
func (f *Fetcher) Range() *engine.InputRange { return &f.cached }

// InitializeCursor resets the cache, invoked by Block.InitializeCursor.
func (f *Fetcher) InitializeCursor(ctx context.Context) error {
	f.have = false
	f.cached = engine.InputRange{}
	return f.upstream.InitializeCursor(ctx)
}
