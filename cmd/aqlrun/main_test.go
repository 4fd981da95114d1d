package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/enginelog"
)

func ints(t *testing.T, values []aqlvalue.Value) []int64 {
	t.Helper()
	out := make([]int64, len(values))
	for i, v := range values {
		n, ok := v.AsInt()
		require.True(t, ok)
		out[i] = n
	}
	return out
}

func runScenario(t *testing.T, name string) []aqlvalue.Value {
	t.Helper()
	killed := func() bool { return false }
	p := buildPlan(name, enginelog.NopTracer{}, killed)
	block, _, err := run(context.Background(), p.root, p.call)
	require.NoError(t, err)

	var out []aqlvalue.Value
	for row := 0; row < block.NumRows(); row++ {
		if block.IsShadowRow(row) {
			continue
		}
		out = append(out, block.Get(row, p.printRegister))
	}
	return out
}

func TestS1LimitPassThrough(t *testing.T) {
	got := runScenario(t, "S1")
	assert.Equal(t, []int64{1}, ints(t, got))
}

func TestS2LimitWithFullCount(t *testing.T) {
	got := runScenario(t, "S2")
	assert.Equal(t, []int64{1}, ints(t, got))
}

func TestS3LimitWithOffsetAndFullCount(t *testing.T) {
	got := runScenario(t, "S3")
	assert.Equal(t, []int64{2, 3, 4}, ints(t, got))
}

func TestS4DistinctCollect(t *testing.T) {
	got := runScenario(t, "S4")
	assert.Equal(t, []int64{3, 4}, ints(t, got))
}

func TestS5CountCollectInSubquery(t *testing.T) {
	killed := func() bool { return false }
	p := buildPlan("S5", enginelog.NopTracer{}, killed)
	block, _, err := run(context.Background(), p.root, p.call)
	require.NoError(t, err)
	require.Equal(t, 4, block.NumRows())
	for row := 0; row < block.NumRows(); row++ {
		arr, ok := block.Get(row, p.printRegister).AsArray()
		require.True(t, ok)
		assert.Equal(t, []int64{1}, ints(t, arr))
	}
}

func TestS6CountCollectInEmptySubquery(t *testing.T) {
	killed := func() bool { return false }
	p := buildPlan("S6", enginelog.NopTracer{}, killed)
	block, _, err := run(context.Background(), p.root, p.call)
	require.NoError(t, err)
	require.Equal(t, 4, block.NumRows())
	for row := 0; row < block.NumRows(); row++ {
		arr, ok := block.Get(row, p.printRegister).AsArray()
		require.True(t, ok)
		assert.Equal(t, []int64{0}, ints(t, arr))
	}
}

func TestS7AsyncTransparency(t *testing.T) {
	asyncRows := runScenario(t, "S7")
	plainRows := runScenario(t, "S1")
	assert.Equal(t, ints(t, plainRows), ints(t, asyncRows))
}
