package fetcher

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
)

// InputRangeFetcher hands its caller a whole cached run of rows at once
// (spec.md §4.2); enginedriver.Driver pulls every executor's upstream
// through it.
type InputRangeFetcher struct {
	f *Fetcher
}

// NewInputRangeFetcher wraps upstream.
func NewInputRangeFetcher(upstream engine.Block) *InputRangeFetcher {
	return &InputRangeFetcher{f: New(upstream)}
}

// Execute pulls one upstream batch if needed and returns the resulting
// state; the caller then consumes Range() until it is exhausted before
// calling Execute again.
func (r *InputRangeFetcher) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, error) {
	return r.f.Execute(ctx, stack)
}

// Range returns the currently cached InputRange.
func (r *InputRangeFetcher) Range() *engine.InputRange { return r.f.Range() }

// InitializeCursor resets the fetcher's cache.
func (r *InputRangeFetcher) InitializeCursor(ctx context.Context) error {
	return r.f.InitializeCursor(ctx)
}
