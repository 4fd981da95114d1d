package fetcher

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/rowblock"
)

// SingleRowFetcher hands its caller one input row per NextRow call, for
// a consumer that inspects each input row before deciding to emit
// (spec.md §4.2). The executors in this module are all driven through
// enginedriver.Driver, which uses InputRangeFetcher instead.
type SingleRowFetcher struct {
	f *Fetcher
}

// NewSingleRowFetcher wraps upstream.
func NewSingleRowFetcher(upstream engine.Block) *SingleRowFetcher {
	return &SingleRowFetcher{f: New(upstream)}
}

// NextRow returns the next available input row, pulling from upstream
// if the cache is empty. ok is false if no row is currently available
// (caller should issue another upstream call via Execute first, unless
// state is Done in which case no more rows will ever come).
func (s *SingleRowFetcher) NextRow(ctx context.Context, stack *aqlcall.Stack) (rowblock.InputRow, engine.State, bool, error) {
	rng := s.f.Range()
	if rng.Exhausted() {
		state, _, err := s.f.Execute(ctx, stack)
		if err != nil {
			return rowblock.InputRow{}, engine.Waiting, false, err
		}
		rng = s.f.Range()
		if rng.Exhausted() {
			return rowblock.InputRow{}, state, false, nil
		}
	}

	row := rng.Current()
	rng.Advance()
	return row, engine.HasMore, true, nil
}

// Execute delegates to the wrapped Fetcher, exposed for the driver to
// issue explicit upstream calls between NextRow invocations.
func (s *SingleRowFetcher) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, error) {
	return s.f.Execute(ctx, stack)
}

// InitializeCursor resets the fetcher's cache.
func (s *SingleRowFetcher) InitializeCursor(ctx context.Context) error {
	return s.f.InitializeCursor(ctx)
}
