package aqlcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallValidate(t *testing.T) {
	require.NoError(t, NewCall(0, 10, false).Validate())
	require.Error(t, NewCall(-1, 10, false).Validate())
	require.Error(t, NewCall(0, -1, false).Validate())
}

func TestStackPushPop(t *testing.T) {
	s := NewStack(NewCall(0, 10, false))
	require.Equal(t, 1, s.Depth())

	s.Push(NewCall(0, 1, false))
	require.Equal(t, 2, s.Depth())
	assert.Equal(t, int64(1), s.Top().Limit)

	popped := s.Pop()
	assert.Equal(t, int64(1), popped.Limit)
	require.Equal(t, 1, s.Depth())
}

func TestSkipResultPushPopResets(t *testing.T) {
	sr := NewSkipResult()
	sr.DidSkip(3)
	assert.Equal(t, int64(3), sr.At(0))

	sr.Push()
	sr.DidSkip(5)
	assert.Equal(t, int64(5), sr.At(1))
	assert.Equal(t, int64(3), sr.At(0))

	popped := sr.Pop()
	assert.Equal(t, int64(5), popped)
	assert.Equal(t, 1, sr.Depth())
}

func TestSkipResultMergeIsAdditive(t *testing.T) {
	a := NewSkipResult()
	a.DidSkip(2)
	b := NewSkipResult()
	b.DidSkip(3)

	a.Merge(b)
	assert.Equal(t, int64(5), a.At(0))
}
