package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// fakeSource emits len(values) rows, one per batch, then DONE. It
// exists purely to exercise Fetcher/SingleRowFetcher/InputRangeFetcher
// without a real upstream operator.
type fakeSource struct {
	values []int64
	pos    int
}

func (s *fakeSource) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	if s.pos >= len(s.values) {
		return engine.Done, aqlcall.NewSkipResult(), rowblock.NewBlock(1), nil
	}
	ri := &regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}
	out := rowblock.New(ri, 10)
	in := rowblock.InputRow{}
	out.CloneValueInto(0, in, aqlvalue.Int(s.values[s.pos]))
	if err := out.AdvanceRow(); err != nil {
		return engine.Waiting, aqlcall.NewSkipResult(), nil, err
	}
	s.pos++

	state := engine.HasMore
	if s.pos >= len(s.values) {
		state = engine.Done
	}
	return state, aqlcall.NewSkipResult(), out.StealBlock(), nil
}

func (s *fakeSource) InitializeCursor(ctx context.Context) error {
	s.pos = 0
	return nil
}

func (s *fakeSource) Dependencies() []engine.Block { return nil }

func TestSingleRowFetcherAdvancesOneRowAtATime(t *testing.T) {
	src := &fakeSource{values: []int64{1, 2, 3}}
	srf := NewSingleRowFetcher(src)
	stack := aqlcall.NewStack(aqlcall.Unlimited(false))

	var seen []int64
	for {
		row, state, ok, err := srf.NextRow(context.Background(), stack)
		require.NoError(t, err)
		if ok {
			n, _ := row.Block.Get(row.Index, 0).AsInt()
			seen = append(seen, n)
			continue
		}
		if state == engine.Done {
			break
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, seen)
}

func TestInputRangeFetcherCachesOneBlock(t *testing.T) {
	src := &fakeSource{values: []int64{1, 2}}
	rf := NewInputRangeFetcher(src)
	stack := aqlcall.NewStack(aqlcall.Unlimited(false))

	state, _, err := rf.Execute(context.Background(), stack)
	require.NoError(t, err)
	assert.Equal(t, engine.HasMore, state)
	assert.Equal(t, 1, rf.Range().RemainingRows())

	// A second Execute call while the cached range is non-empty must
	// not re-pull from upstream.
	state, _, err = rf.Execute(context.Background(), stack)
	require.NoError(t, err)
	assert.Equal(t, engine.HasMore, state)
	assert.Equal(t, 1, rf.Range().RemainingRows())
}
