// Package limit implements the Limit executor of spec.md §4.4: skip
// offset rows, forward up to limit rows, and optionally keep consuming
// (but dropping) rows until upstream is DONE to report an accurate
// fullCount.
//
// Grounded on the teacher's throttle.go (the closest analogue of "count
// consumed units and gate further work") and, for the exact state
// machine and pushdown formula, directly on
// original_source/arangod/Aql/LimitExecutor.cpp.
package limit

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
	"github.com/arangodb/aql-engine/stats"
)

type phase int

const (
	skippingOffset phase = iota
	forwarding
	counting
	done
)

// DocumentFetcher resolves a document id carried in an upstream-set
// register into its full value, the collaborator the late-materialized
// variant of spec.md §4.4 calls through.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, docID string) (aqlvalue.Value, error)
}

// Executor implements engine.Executor for LIMIT offset, limit[,
// fullCount].
type Executor struct {
	offset    int64
	limit     int64
	fullCount bool

	docIDRegister regmap.Register
	outRegister   regmap.Register
	fetcher       DocumentFetcher

	phase        phase
	localSkipped int64
	emitted      int64
	fullCountSum int64
}

// New builds an Executor for a plain (non-late-materializing) LIMIT.
func New(offset, limit int64, fullCount bool) *Executor {
	e := &Executor{
		offset:        offset,
		limit:         limit,
		fullCount:     fullCount,
		docIDRegister: regmap.InvalidRegister,
		outRegister:   regmap.InvalidRegister,
	}
	e.phase = skippingOffset
	if offset <= 0 {
		e.phase = forwarding
	}
	return e
}

// WithLateMaterialization configures the late-materialized variant: the
// executor populates outRegister by resolving the document id held in
// docIDRegister through fetcher as each row is forwarded.
func (e *Executor) WithLateMaterialization(docIDRegister, outRegister regmap.Register, fetcher DocumentFetcher) *Executor {
	e.docIDRegister = docIDRegister
	e.outRegister = outRegister
	e.fetcher = fetcher
	return e
}

// Stats reports the running totals this executor has accumulated -
// queried by the owner of the query's ExecutionStats once this block
// reaches DONE, and merged additively (spec.md §9: "fullCount
// accumulates across resumptions ... merged additively into
// ExecutionStats, not overwritten").
func (e *Executor) Stats() stats.ExecutionStats {
	return stats.ExecutionStats{Count: e.emitted, FullCount: e.fullCountSum}
}

func (e *Executor) forwardRow(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow) error {
	row := input.Current()
	if row.IsShadowRow() {
		output.CopyRow(row)
		return output.AdvanceRow()
	}

	output.CopyRow(row)
	if e.fetcher != nil && e.docIDRegister.IsValid() {
		docID, _ := row.Block.Get(row.Index, e.docIDRegister).AsString()
		doc, err := e.fetcher.FetchDocument(ctx, docID)
		if err != nil {
			return err
		}
		output.CloneValueInto(e.outRegister, row, doc)
	}
	return output.AdvanceRow()
}

// mergedLimit implements spec.md §4.4's pushdown formula: the upstream
// call this block issues merges its own remaining limit with whatever
// the downstream call still wants, so a LIMIT sitting under another
// LIMIT (or any block with a real downstream limit) still requests the
// minimal necessary rows upstream instead of pulling its own full
// remaining budget regardless of what downstream asked for.
func mergedLimit(localRemaining int64, call aqlcall.Call) int64 {
	if call.Limit < localRemaining {
		return call.Limit
	}
	return localRemaining
}

// ProduceRows implements engine.Executor.
func (e *Executor) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, call aqlcall.Call) (engine.ProduceResult, error) {
	for {
		switch e.phase {
		case skippingOffset:
			for e.localSkipped < e.offset && input.HasDataRow() {
				row := input.Current()
				if row.IsShadowRow() {
					if err := e.forwardRow(ctx, input, output); err != nil {
						return engine.ProduceResult{}, err
					}
					input.Advance()
					if output.IsFull() {
						return engine.ProduceResult{State: engine.HasMore}, nil
					}
					continue
				}
				input.Advance()
				e.localSkipped++
			}
			if e.localSkipped >= e.offset {
				e.phase = forwarding
				continue
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.ProduceResult{State: engine.Done}, nil
			}
			upstreamCall := aqlcall.NewCall(e.offset-e.localSkipped, aqlcall.Unbounded, false)
			return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &upstreamCall}, nil

		case forwarding:
			for e.emitted < e.limit && input.HasDataRow() {
				row := input.Current()
				if err := e.forwardRow(ctx, input, output); err != nil {
					return engine.ProduceResult{}, err
				}
				input.Advance()
				if !row.IsShadowRow() {
					e.emitted++
				}
				if output.IsFull() {
					return engine.ProduceResult{State: engine.HasMore}, nil
				}
			}
			if e.emitted >= e.limit {
				if e.fullCount {
					e.phase = counting
					continue
				}
				e.phase = done
				return engine.ProduceResult{State: engine.Done}, nil
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.ProduceResult{State: engine.Done}, nil
			}
			upstreamCall := aqlcall.NewCall(0, mergedLimit(e.limit-e.emitted, call), false)
			return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &upstreamCall}, nil

		case counting:
			for input.HasDataRow() {
				row := input.Current()
				input.Advance()
				if !row.IsShadowRow() {
					e.fullCountSum++
				}
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.ProduceResult{State: engine.Done}, nil
			}
			upstreamCall := aqlcall.NewCall(0, 0, true)
			return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &upstreamCall}, nil

		default: // done
			return engine.ProduceResult{State: engine.Done}, nil
		}
	}
}

// SkipRowsRange implements engine.Executor: the downstream wants call's
// rows discarded rather than forwarded. The limit block applies its own
// offset/limit/fullCount state exactly as in ProduceRows, except it
// never writes into output.
func (e *Executor) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	var skipped int64

	for {
		switch e.phase {
		case skippingOffset:
			for e.localSkipped < e.offset && input.HasDataRow() {
				input.Advance()
				e.localSkipped++
				skipped++
			}
			if e.localSkipped >= e.offset {
				e.phase = forwarding
				continue
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
			}
			upstreamCall := aqlcall.NewCall(e.offset-e.localSkipped, aqlcall.Unbounded, false)
			return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil

		case forwarding:
			for e.emitted < e.limit && input.HasDataRow() {
				row := input.Current()
				input.Advance()
				if !row.IsShadowRow() {
					e.emitted++
					skipped++
				}
			}
			if e.emitted >= e.limit {
				if e.fullCount {
					e.phase = counting
					continue
				}
				e.phase = done
				return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
			}
			upstreamCall := aqlcall.NewCall(0, mergedLimit(e.limit-e.emitted, call), false)
			return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil

		case counting:
			for input.HasDataRow() {
				row := input.Current()
				input.Advance()
				if !row.IsShadowRow() {
					e.fullCountSum++
					skipped++
				}
			}
			if input.UpstreamDone() {
				e.phase = done
				return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
			}
			upstreamCall := aqlcall.NewCall(0, 0, true)
			return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil

		default: // done
			return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
		}
	}
}
