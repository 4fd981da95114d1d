package collect

import (
	"context"

	"github.com/cevaris/ordered_map"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/rowblock"
)

// Distinct implements the collect executor of spec.md §4.5.4: a hashed
// collect specialization with no aggregators, emitting one row per
// distinct grouping-column tuple in first-encounter order.
//
// Grounded on original_source/arangod/Aql/DistinctCollectExecutor.cpp/.h
// for the insertion-order-preservation requirement; implemented with
// github.com/cevaris/ordered_map so the bucket map itself preserves the
// order distinct keys were first seen, same as the teacher's
// ordereddict-backed bins establish insertion order as a first-class
// concern elsewhere in this codebase.
type Distinct struct {
	groupColumns []GroupColumn

	seen     *ordered_map.OrderedMap // uint64 hash -> []aqlvalue.GroupKey (collision chain)
	building bool
	emitList []aqlvalue.GroupKey
	done     bool
}

// NewDistinct builds a Distinct collect executor.
func NewDistinct(groupColumns []GroupColumn) *Distinct {
	return &Distinct{
		groupColumns: groupColumns,
		seen:         ordered_map.NewOrderedMap(),
		building:     true,
	}
}

func (d *Distinct) insert(key aqlvalue.GroupKey) {
	h := key.Hash()
	var bucket []aqlvalue.GroupKey
	if existing, ok := d.seen.Get(h); ok {
		bucket = existing.([]aqlvalue.GroupKey)
	}
	for _, k := range bucket {
		if k.Equal(key) {
			return
		}
	}
	bucket = append(bucket, key.Clone())
	d.seen.Set(h, bucket)
}

func (d *Distinct) resetBuild() {
	d.seen = ordered_map.NewOrderedMap()
	d.building = true
	d.emitList = nil
}

func (d *Distinct) finishBuild() {
	d.building = false
	d.emitList = d.emitList[:0]
	iter := d.seen.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		d.emitList = append(d.emitList, kv.Value.([]aqlvalue.GroupKey)...)
	}
}

func (d *Distinct) emitKey(output *rowblock.OutputRow, key aqlvalue.GroupKey) error {
	var in rowblock.InputRow
	output.WriteInvalidInputRow()
	for i, gc := range d.groupColumns {
		output.CloneValueInto(gc.OutRegister, in, key[i])
	}
	return output.AdvanceRow()
}

// ProduceRows implements engine.Executor.
func (d *Distinct) ProduceRows(ctx context.Context, input *engine.InputRange, output *rowblock.OutputRow, _ aqlcall.Call) (engine.ProduceResult, error) {
	if d.done {
		return engine.ProduceResult{State: engine.Done}, nil
	}

	if d.building {
		for input.HasDataRow() {
			row := input.Current()

			if row.IsShadowRow() {
				d.finishBuild()
				for len(d.emitList) > 0 {
					if err := d.emitKey(output, d.emitList[0]); err != nil {
						return engine.ProduceResult{}, err
					}
					d.emitList = d.emitList[1:]
					if output.IsFull() {
						return engine.ProduceResult{State: engine.HasMore}, nil
					}
				}
				output.CopyRow(row)
				if err := output.AdvanceRow(); err != nil {
					return engine.ProduceResult{}, err
				}
				input.Advance()
				d.resetBuild()
				if output.IsFull() {
					return engine.ProduceResult{State: engine.HasMore}, nil
				}
				continue
			}

			d.insert(keyFromRow(row, d.groupColumns))
			input.Advance()
		}

		if !input.UpstreamDone() {
			call := aqlcall.Unlimited(false)
			return engine.ProduceResult{State: engine.HasMore, UpstreamCall: &call}, nil
		}
		d.finishBuild()
	}

	for len(d.emitList) > 0 {
		if err := d.emitKey(output, d.emitList[0]); err != nil {
			return engine.ProduceResult{}, err
		}
		d.emitList = d.emitList[1:]
		if output.IsFull() {
			return engine.ProduceResult{State: engine.HasMore}, nil
		}
	}

	d.done = true
	return engine.ProduceResult{State: engine.Done}, nil
}

// SkipRowsRange implements engine.Executor: discards exactly the first
// call.Offset groups this executor would otherwise emit, leaving any
// remainder in emitList for a later ProduceRows call - unlike running
// ProduceRows to completion against a throwaway block, it never
// discards more than what was actually requested.
//
// A subquery boundary crossed while still building (a shadow row seen
// before the top-level input is exhausted) discards that whole
// intermediate bracket's groups in one step rather than partially: its
// groups are only known in full the instant the bracket closes, and
// nested subqueries under a pushed-down offset are rare enough that
// this is a reasonable approximation. The final (or only) bracket - the
// common case, e.g. a Distinct with no intervening subquery - always
// gets exact, partial skipping.
func (d *Distinct) SkipRowsRange(ctx context.Context, input *engine.InputRange, call aqlcall.Call) (engine.SkipResult, error) {
	if d.done {
		return engine.SkipResult{State: engine.Done}, nil
	}

	var skipped int64

	if d.building {
		for input.HasDataRow() {
			row := input.Current()

			if row.IsShadowRow() {
				d.finishBuild()
				skipped += int64(len(d.emitList))
				input.Advance()
				d.resetBuild()
				continue
			}

			d.insert(keyFromRow(row, d.groupColumns))
			input.Advance()
		}

		if !input.UpstreamDone() {
			upstreamCall := aqlcall.Unlimited(false)
			return engine.SkipResult{State: engine.HasMore, Skipped: skipped, UpstreamCall: &upstreamCall}, nil
		}
		d.finishBuild()
	}

	remaining := call.Offset - skipped
	for remaining > 0 && len(d.emitList) > 0 {
		d.emitList = d.emitList[1:]
		skipped++
		remaining--
	}

	if len(d.emitList) > 0 {
		return engine.SkipResult{State: engine.HasMore, Skipped: skipped}, nil
	}
	d.done = true
	return engine.SkipResult{State: engine.Done, Skipped: skipped}, nil
}
