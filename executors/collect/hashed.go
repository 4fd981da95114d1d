package collect

import (
	"context"

	"github.com/arangodb/aql-engine/aggregate"
	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/engineconfig"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/resourcemonitor"
	"github.com/arangodb/aql-engine/rowblock"
)

// hashedGroupEntry is one distinct key's accumulated state.
type hashedGroupEntry struct {
	key     aqlvalue.GroupKey
	group   *aggregate.GroupState
	intoAcc *intoAccumulator
}

// estimatedEntryBytes is a rough per-group accounting unit charged
// against the resource monitor; the engine does not track exact byte
// sizes of arbitrary Values, so a fixed estimate per distinct group is
// used (spec.md §4.5.3: "peak memory is tracked against a resource
// monitor").
const estimatedEntryBytes = 128

// Hashed implements the build/emit collect executor of spec.md §4.5.3:
// input need not be sorted, so every distinct group is kept live in a
// hash map until all input has been seen, then emitted in map
// (arbitrary) order.
type Hashed struct {
	groupColumns []GroupColumn
	specs        []aggregate.Spec
	registry     *aggregate.Registry
	into         *IntoSpec
	monitor      *resourcemonitor.Monitor

	buckets  map[uint64][]*hashedGroupEntry
	building bool
	emitList []*hashedGroupEntry
	done     bool
}

// NewHashed builds a Hashed collect executor. monitor may be nil to
// disable the resource ceiling check.
func NewHashed(groupColumns []GroupColumn, specs []aggregate.Spec, policy engineconfig.AggregationPolicy, into *IntoSpec, monitor *resourcemonitor.Monitor) *Hashed {
	return &Hashed{
		groupColumns: groupColumns,
		specs:        specs,
		registry:     aggregate.NewRegistry(specs, policy),
		into:         into,
		monitor:      monitor,
		buckets:      map[uint64][]*hashedGroupEntry{},
		building:     true,
	}
}

func (h *Hashed) lookupOrCreate(key aqlvalue.GroupKey) (*hashedGroupEntry, error) {
	hsh := key.Hash()
	for _, e := range h.buckets[hsh] {
		if e.key.Equal(key) {
			return e, nil
		}
	}
	if h.monitor != nil {
		if err := h.monitor.Allocate(estimatedEntryBytes); err != nil {
			return nil, err
		}
	}
	e := &hashedGroupEntry{key: key.Clone(), group: h.registry.NewGroup(), intoAcc: newIntoAccumulator(h.into)}
	h.buckets[hsh] = append(h.buckets[hsh], e)
	return e, nil
}

func (h *Hashed) resetBuild() {
	h.buckets = map[uint64][]*hashedGroupEntry{}
	h.building = true
	h.emitList = nil
}

func (h *Hashed) finishBuild() {
	h.building = false
	h.emitList = h.emitList[:0]
	for _, bucket := range h.buckets {
		h.emitList = append(h.emitList, bucket...)
	}
}

func (h *Hashed) emitEntry(output *rowblock.OutputRow, e *hashedGroupEntry) error {
	results := h.registry.Finalize(e.group)
	if err := emitGroupRow(output, h.groupColumns, h.specs, results, e.key, h.into, e.intoAcc); err != nil {
		return err
	}
	if h.monitor != nil {
		h.monitor.Release(estimatedEntryBytes)
	}
	return nil
}

// ProduceRows implements engine.Executor.
func (h *Hashed) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, _ aqlcall.Call) (engine.ProduceResult, error) {
	if h.done {
		return engine.ProduceResult{State: engine.Done}, nil
	}

	if h.building {
		for input.HasDataRow() {
			row := input.Current()

			if row.IsShadowRow() {
				h.finishBuild()
				for len(h.emitList) > 0 {
					if err := h.emitEntry(output, h.emitList[0]); err != nil {
						return engine.ProduceResult{}, err
					}
					h.emitList = h.emitList[1:]
					if output.IsFull() {
						return engine.ProduceResult{State: engine.HasMore}, nil
					}
				}
				output.CopyRow(row)
				if err := output.AdvanceRow(); err != nil {
					return engine.ProduceResult{}, err
				}
				input.Advance()
				h.resetBuild()
				if output.IsFull() {
					return engine.ProduceResult{State: engine.HasMore}, nil
				}
				continue
			}

			key := keyFromRow(row, h.groupColumns)
			entry, err := h.lookupOrCreate(key)
			if err != nil {
				return engine.ProduceResult{}, err
			}
			if err := h.registry.Reduce(entry.group, func(reg regmap.Register) aqlvalue.Value {
				return row.Block.Get(row.Index, reg)
			}); err != nil {
				return engine.ProduceResult{}, err
			}
			entry.intoAcc.add(row)
			input.Advance()
		}

		if !input.UpstreamDone() {
			call := aqlcall.Unlimited(false)
			return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &call}, nil
		}
		h.finishBuild()
	}

	for len(h.emitList) > 0 {
		if err := h.emitEntry(output, h.emitList[0]); err != nil {
			return engine.ProduceResult{}, err
		}
		h.emitList = h.emitList[1:]
		if output.IsFull() {
			return engine.ProduceResult{State: engine.HasMore}, nil
		}
	}

	h.done = true
	return engine.ProduceResult{State: engine.Done}, nil
}

// SkipRowsRange implements engine.Executor: discards exactly the first
// call.Offset groups this executor would otherwise emit, leaving any
// remainder in emitList for a later ProduceRows call (see distinct.go's
// SkipRowsRange for the rationale, including the intermediate-bracket
// approximation for a subquery boundary hit while still building).
func (h *Hashed) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	if h.done {
		return engine.SkipResult{State: engine.Done}, nil
	}

	release := func() {
		if h.monitor != nil {
			h.monitor.Release(estimatedEntryBytes)
		}
	}

	var skipped int64

	if h.building {
		for input.HasDataRow() {
			row := input.Current()

			if row.IsShadowRow() {
				h.finishBuild()
				for range h.emitList {
					release()
				}
				skipped += int64(len(h.emitList))
				input.Advance()
				h.resetBuild()
				continue
			}

			key := keyFromRow(row, h.groupColumns)
			entry, err := h.lookupOrCreate(key)
			if err != nil {
				return engine.SkipResult{}, err
			}
			if err := h.registry.Reduce(entry.group, func(reg regmap.Register) aqlvalue.Value {
				return row.Block.Get(row.Index, reg)
			}); err != nil {
				return engine.SkipResult{}, err
			}
			entry.intoAcc.add(row)
			input.Advance()
		}

		if !input.UpstreamDone() {
			upstreamCall := aqlcall.Unlimited(false)
			return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil
		}
		h.finishBuild()
	}

	remaining := call.Offset - skipped
	for remaining > 0 && len(h.emitList) > 0 {
		release()
		h.emitList = h.emitList[1:]
		skipped++
		remaining--
	}

	if len(h.emitList) > 0 {
		return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
	}
	h.done = true
	return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
}
