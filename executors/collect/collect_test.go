package collect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aggregate"
	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/engineconfig"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// buildRows constructs an upstream-done InputRange with two registers
// per row: register 0 (grouping key) and register 1 (aggregate input).
func buildRows(t *testing.T, upstreamDone bool, rows [][2]int64) *engine.InputRange {
	t.Helper()
	ri := &regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{0, 1}, RegistersToKeep: []regmap.Register{0, 1}}
	out := rowblock.New(ri, 1000)
	var in rowblock.InputRow
	for _, r := range rows {
		out.CloneValueInto(0, in, aqlvalue.Int(r[0]))
		out.CloneValueInto(1, in, aqlvalue.Int(r[1]))
		require.NoError(t, out.AdvanceRow())
	}
	rng := engine.NewInputRange(out.StealBlock(), upstreamDone)
	return &rng
}

func groupResultPairs(t *testing.T, block *rowblock.Block) map[int64]int64 {
	t.Helper()
	result := map[int64]int64{}
	for i := 0; i < block.NumRows(); i++ {
		k, ok := block.Get(i, 0).AsInt()
		require.True(t, ok)
		v, ok := block.Get(i, 1).AsInt()
		require.True(t, ok)
		result[k] = v
	}
	return result
}

var groupCols = []GroupColumn{{InRegister: 0, OutRegister: 0}}
var sumSpec = []aggregate.Spec{{InRegister: 1, OutRegister: 1, Kind: aggregate.Sum}}

func TestSortedCollectEmitsOneRowPerRunOfEqualKeys(t *testing.T) {
	e := NewSorted(groupCols, sumSpec, engineconfig.Lenient, nil)
	input := buildRows(t, true, [][2]int64{{1, 10}, {1, 20}, {2, 5}})
	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{0, 1}}, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	pairs := groupResultPairs(t, output.StealBlock())
	assert.Equal(t, map[int64]int64{1: 30, 2: 5}, pairs)
}

func TestSortedCollectWithIntoGathersRawValues(t *testing.T) {
	into := &IntoSpec{OutRegister: 2, SourceRegister: 1}
	e := NewSorted(groupCols, sumSpec, engineconfig.Lenient, into)
	input := buildRows(t, true, [][2]int64{{1, 10}, {1, 20}})

	ri := &regmap.RegisterInfos{NumRegisters: 3, OutputRegisters: []regmap.Register{0, 1, 2}}
	output := rowblock.New(ri, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	block := output.StealBlock()
	require.Equal(t, 1, block.NumRows())
	arr, ok := block.Get(0, 2).AsArray()
	require.True(t, ok)
	require.Len(t, arr, 2)
	v0, _ := arr[0].AsInt()
	v1, _ := arr[1].AsInt()
	assert.Equal(t, []int64{10, 20}, []int64{v0, v1})
}

func TestHashedCollectGroupsOutOfOrderInput(t *testing.T) {
	e := NewHashed(groupCols, sumSpec, engineconfig.Lenient, nil, nil)
	input := buildRows(t, true, [][2]int64{{2, 5}, {1, 10}, {1, 20}})
	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{0, 1}}, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	pairs := groupResultPairs(t, output.StealBlock())
	assert.Equal(t, map[int64]int64{1: 30, 2: 5}, pairs)
}

func TestCountCollectConsumesEverythingAndEmitsOneRow(t *testing.T) {
	e := NewCount(0)
	input := buildRows(t, true, [][2]int64{{1, 1}, {2, 2}, {3, 3}})
	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	block := output.StealBlock()
	require.Equal(t, 1, block.NumRows())
	n, _ := block.Get(0, 0).AsInt()
	assert.Equal(t, int64(3), n)
}

func TestCountCollectOnEmptyInputStillEmitsOneRow(t *testing.T) {
	e := NewCount(0)
	input := buildRows(t, true, nil)
	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	block := output.StealBlock()
	require.Equal(t, 1, block.NumRows())
	n, _ := block.Get(0, 0).AsInt()
	assert.Equal(t, int64(0), n)
}

func TestDistinctCollectPreservesFirstEncounterOrder(t *testing.T) {
	e := NewDistinct(groupCols)
	input := buildRows(t, true, [][2]int64{{1, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 0}, {3, 0}})
	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}, 1000)

	result, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, result.State)

	block := output.StealBlock()
	require.Equal(t, 3, block.NumRows())
	var seen []int64
	for i := 0; i < block.NumRows(); i++ {
		n, _ := block.Get(i, 0).AsInt()
		seen = append(seen, n)
	}
	assert.Equal(t, []int64{1, 2, 3}, seen)
}

func TestDistinctCollectSkipRowsRangeDiscardsOnlyOffsetGroups(t *testing.T) {
	e := NewDistinct(groupCols)
	input := buildRows(t, true, [][2]int64{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}})

	skipRes, err := e.SkipRowsRange(context.Background(), input, aqlcall.NewCall(2, aqlcall.Unbounded, false))
	require.NoError(t, err)
	assert.Equal(t, engine.HasMore, skipRes.State)
	assert.Equal(t, int64(2), skipRes.Skipped)

	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}, 1000)
	produceRes, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, produceRes.State)

	block := output.StealBlock()
	var seen []int64
	for i := 0; i < block.NumRows(); i++ {
		n, _ := block.Get(i, 0).AsInt()
		seen = append(seen, n)
	}
	assert.Equal(t, []int64{3, 4, 5}, seen)
}

func TestHashedCollectSkipRowsRangeDiscardsOnlyOffsetGroups(t *testing.T) {
	e := NewHashed(groupCols, sumSpec, engineconfig.Lenient, nil, nil)
	input := buildRows(t, true, [][2]int64{{1, 10}, {2, 5}, {3, 7}})

	skipRes, err := e.SkipRowsRange(context.Background(), input, aqlcall.NewCall(1, aqlcall.Unbounded, false))
	require.NoError(t, err)
	assert.Equal(t, engine.HasMore, skipRes.State)
	assert.Equal(t, int64(1), skipRes.Skipped)

	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{0, 1}}, 1000)
	produceRes, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, produceRes.State)

	// map iteration order is unspecified, so only the surviving count is
	// asserted deterministically - see TestHashedCollectGroupsOutOfOrderInput.
	pairs := groupResultPairs(t, output.StealBlock())
	require.Len(t, pairs, 2)
}

func TestSortedCollectSkipRowsRangeDiscardsOnlyOffsetGroups(t *testing.T) {
	e := NewSorted(groupCols, sumSpec, engineconfig.Lenient, nil)
	input := buildRows(t, true, [][2]int64{{1, 10}, {1, 20}, {2, 5}, {3, 7}})

	skipRes, err := e.SkipRowsRange(context.Background(), input, aqlcall.NewCall(1, aqlcall.Unbounded, false))
	require.NoError(t, err)
	assert.Equal(t, engine.HasMore, skipRes.State)
	assert.Equal(t, int64(1), skipRes.Skipped)

	output := rowblock.New(&regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{0, 1}}, 1000)
	produceRes, err := e.ProduceRows(context.Background(), input, output, aqlcall.Unlimited(false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, produceRes.State)

	pairs := groupResultPairs(t, output.StealBlock())
	assert.Equal(t, map[int64]int64{2: 5, 3: 7}, pairs)
}

func TestCountCollectSkipRowsRangeDiscardsTheOnlyCountRow(t *testing.T) {
	e := NewCount(0)
	input := buildRows(t, true, [][2]int64{{1, 1}, {2, 2}, {3, 3}})

	skipRes, err := e.SkipRowsRange(context.Background(), input, aqlcall.NewCall(1, aqlcall.Unbounded, false))
	require.NoError(t, err)
	assert.Equal(t, engine.Done, skipRes.State)
	assert.Equal(t, int64(1), skipRes.Skipped)
}
