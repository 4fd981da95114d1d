// Package collect implements the four collect executors of spec.md
// §4.5: Sorted (streaming, one active group), Hashed (build/emit
// phases over a map), Count (collapse to one row) and Distinct (hashed
// collect specialization with no aggregators).
//
// Grounded on the teacher's vfilter_group.go (GroupbyActor/EvalGroupBy:
// transform row, compute bin key, feed aggregator context) and
// grouper/grouper.go (DefaultGrouper.Group: bins map keyed by group
// value, replay contexts, emit in map order), adapted from "materialize
// then replay" to "fold one row at a time into persistent aggregator
// state" as spec.md §4.5 requires. Sorted collect's single-active-group
// fast path and Count collect's collapse-to-one-row behavior have no
// teacher analogue and are grounded directly on
// original_source/arangod/Aql/SortedCollectExecutor.cpp and
// CountCollectExecutor.cpp.
package collect

import (
	"github.com/Velocidex/ordereddict"

	"github.com/arangodb/aql-engine/aggregate"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// GroupColumn maps one grouping expression's input register to the
// register its value is written to in the emitted group row (spec.md
// §4.5.2/§4.5.3).
type GroupColumn struct {
	InRegister  regmap.Register
	OutRegister regmap.Register
}

// IntoSpec describes an optional INTO variable gather (spec.md §4.5.2):
// either a single register cloned into an array per group (Columns
// nil), or a named-column object built per accumulated row (Columns
// set).
type IntoSpec struct {
	OutRegister    regmap.Register
	SourceRegister regmap.Register
	Columns        map[string]regmap.Register
}

// intoAccumulator gathers one group's INTO rows as they are folded in.
type intoAccumulator struct {
	spec *IntoSpec
	rows []aqlvalue.Value
}

func newIntoAccumulator(spec *IntoSpec) *intoAccumulator {
	return &intoAccumulator{spec: spec}
}

func (a *intoAccumulator) add(row rowblock.InputRow) {
	if a.spec == nil {
		return
	}
	if len(a.spec.Columns) == 0 {
		a.rows = append(a.rows, row.Block.Get(row.Index, a.spec.SourceRegister).Clone())
		return
	}
	obj := ordereddict.NewDict()
	for name, reg := range a.spec.Columns {
		obj.Set(name, row.Block.Get(row.Index, reg).Clone())
	}
	a.rows = append(a.rows, aqlvalue.Object(obj))
}

func (a *intoAccumulator) finalize() aqlvalue.Value {
	return aqlvalue.Array(append([]aqlvalue.Value{}, a.rows...))
}

func keyFromRow(row rowblock.InputRow, groupColumns []GroupColumn) aqlvalue.GroupKey {
	key := make(aqlvalue.GroupKey, len(groupColumns))
	for i, gc := range groupColumns {
		key[i] = row.Block.Get(row.Index, gc.InRegister)
	}
	return key
}

// emitGroupRow writes one collapsed group row: key columns, then
// aggregator results, then an optional INTO array - with no backing
// input row (rowblock.CreateInvalidInputRowHint), the shape every
// collect executor's output rows share.
func emitGroupRow(output *rowblock.OutputRow, groupColumns []GroupColumn, specs []aggregate.Spec, results []aqlvalue.Value, key aqlvalue.GroupKey, into *IntoSpec, intoAcc *intoAccumulator) error {
	var in rowblock.InputRow
	output.WriteInvalidInputRow()
	for i, gc := range groupColumns {
		output.CloneValueInto(gc.OutRegister, in, key[i])
	}
	for i, spec := range specs {
		output.CloneValueInto(spec.OutRegister, in, results[i])
	}
	if into != nil {
		output.CloneValueInto(into.OutRegister, in, intoAcc.finalize())
	}
	return output.AdvanceRow()
}
