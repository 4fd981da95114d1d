// Package literal implements a fixed-content source Block: the root of
// a plan tree with no further upstream, used to feed a pre-built
// rowblock.Block into the pipeline for the canned scenarios of spec.md
// §8 and for tests that need a concrete upstream without a real
// operator.
//
// Grounded on fetcher_test.go's fakeSource (the existing in-repo
// pattern for a no-upstream engine.Block emitting fixed rows), adapted
// to hand off its whole block on the first call rather than one row per
// Execute.
package literal

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/rowblock"
)

// Block is an engine.Block with no dependencies that returns a single
// fixed rowblock.Block then DONE forever after.
type Block struct {
	block *rowblock.Block
	taken bool
}

// New wraps block as a source; InitializeCursor rewinds it so it can be
// replayed.
func New(block *rowblock.Block) *Block {
	return &Block{block: block}
}

// Execute implements engine.Block.
func (b *Block) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	if b.taken {
		return engine.Done, aqlcall.NewSkipResult(), rowblock.NewBlock(b.block.NumRegisters()), nil
	}
	b.taken = true
	return engine.Done, aqlcall.NewSkipResult(), b.block, nil
}

// InitializeCursor rewinds the source so the same rows can be produced
// again on a fresh run.
func (b *Block) InitializeCursor(ctx context.Context) error {
	b.taken = false
	return nil
}

// Dependencies implements engine.Block: a literal source has none.
func (b *Block) Dependencies() []engine.Block { return nil }
