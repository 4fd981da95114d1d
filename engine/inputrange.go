package engine

import (
	"github.com/arangodb/aql-engine/rowblock"
)

// InputRange is the view over upstream rows an Executor consumes: a
// window into one cached Block plus the current position, with a flag
// telling the executor whether upstream is known to be exhausted.
// Produced and advanced by a Fetcher (spec.md §4.2); Executors never
// pull from upstream themselves, only from this range (spec.md §4.3).
type InputRange struct {
	block        *rowblock.Block
	pos          int
	upstreamDone bool
}

// NewInputRange wraps block starting at row 0.
func NewInputRange(block *rowblock.Block, upstreamDone bool) InputRange {
	return InputRange{block: block, upstreamDone: upstreamDone}
}

// HasDataRow reports whether there is at least one more row available
// in the range (data or shadow).
func (r *InputRange) HasDataRow() bool {
	return r.block != nil && r.pos < r.block.NumRows()
}

// PeekShadowRow reports whether the next row (if any) is a shadow row.
func (r *InputRange) PeekShadowRow() bool {
	return r.HasDataRow() && r.block.IsShadowRow(r.pos)
}

// Current returns an InputRow cursor at the current position. Callers
// must check HasDataRow first.
func (r *InputRange) Current() rowblock.InputRow {
	return rowblock.InputRow{Block: r.block, Index: r.pos}
}

// Advance moves the cursor to the next row.
func (r *InputRange) Advance() { r.pos++ }

// RemainingRows returns how many rows (from pos to the end) remain in
// the cached block.
func (r *InputRange) RemainingRows() int {
	if r.block == nil {
		return 0
	}
	return r.block.NumRows() - r.pos
}

// UpstreamDone reports whether upstream has already signalled DONE, so
// an empty range here truly means no more rows will ever arrive.
func (r *InputRange) UpstreamDone() bool { return r.upstreamDone }

// Exhausted reports whether this range has no more rows left to give.
func (r *InputRange) Exhausted() bool { return !r.HasDataRow() }
