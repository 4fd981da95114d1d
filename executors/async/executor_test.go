package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/enginestate"
	"github.com/arangodb/aql-engine/rowblock"
)

// blockingSource blocks until release is closed, then returns state
// with a one-row block (or an error, if err is set).
type blockingSource struct {
	release chan struct{}
	state   engine.State
	err     error

	mu    sync.Mutex
	calls int
}

func (s *blockingSource) Execute(ctx context.Context, stack *aqlcall.Stack) (engine.State, aqlcall.SkipResult, *rowblock.Block, error) {
	<-s.release
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return engine.Waiting, aqlcall.NewSkipResult(), nil, s.err
	}
	return s.state, aqlcall.NewSkipResult(), rowblock.NewBlock(0), nil
}

func (s *blockingSource) InitializeCursor(ctx context.Context) error { return nil }
func (s *blockingSource) Dependencies() []engine.Block               { return nil }

func (s *blockingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestAsyncExecuteReturnsWaitingThenWakesWithResult(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), state: engine.Done}
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)

	woken := make(chan struct{}, 1)
	shared.SetWakeupHandler(func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	})

	stack := aqlcall.NewStack(aqlcall.Unlimited(false))
	state, _, block, err := a.Execute(context.Background(), stack)
	require.NoError(t, err)
	assert.Equal(t, engine.Waiting, state)
	assert.Nil(t, block)

	close(src.release)
	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("wakeup handler never fired")
	}

	state, _, block, err = a.Execute(context.Background(), stack)
	require.NoError(t, err)
	assert.Equal(t, engine.Done, state)
	require.NotNil(t, block)
}

func TestAsyncExecuteKeepsReturningDoneOnceStored(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), state: engine.Done}
	close(src.release)
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)

	stack := aqlcall.NewStack(aqlcall.Unlimited(false))
	waitUntil(t, func() bool {
		state, _, _, err := a.Execute(context.Background(), stack)
		return err == nil && state != engine.Waiting
	})

	for i := 0; i < 3; i++ {
		state, _, block, err := a.Execute(context.Background(), stack)
		require.NoError(t, err)
		assert.Equal(t, engine.Done, state)
		require.NotNil(t, block)
	}
	assert.Equal(t, 1, src.callCount(), "a DONE result must not trigger another upstream pull")
}

func TestAsyncExecutePropagatesUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	src := &blockingSource{release: make(chan struct{}), err: boom}
	close(src.release)
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)

	stack := aqlcall.NewStack(aqlcall.Unlimited(false))

	var gotErr error
	waitUntil(t, func() bool {
		_, _, _, err := a.Execute(context.Background(), stack)
		if err != nil {
			gotErr = err
			return true
		}
		return false
	})
	assert.ErrorIs(t, gotErr, boom)
}

func TestAsyncInProgressCallsReturnWaitingWithoutDuplicatingUpstreamPulls(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), state: engine.HasMore}
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)
	stack := aqlcall.NewStack(aqlcall.Unlimited(false))

	state, _, _, err := a.Execute(context.Background(), stack)
	require.NoError(t, err)
	assert.Equal(t, engine.Waiting, state)

	for i := 0; i < 3; i++ {
		state, _, _, err := a.Execute(context.Background(), stack)
		require.NoError(t, err)
		assert.Equal(t, engine.Waiting, state)
	}

	close(src.release)
	waitUntil(t, func() bool { return src.callCount() == 1 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, src.callCount(), "repeated InProgress polls must not spawn extra upstream pulls")
}

func TestAsyncInitializeCursorKeepsErrorObservedSinceItWasStored(t *testing.T) {
	boom := errors.New("boom")
	src := &blockingSource{release: make(chan struct{}), err: boom}
	close(src.release)
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)
	stack := aqlcall.NewStack(aqlcall.Unlimited(false))

	waitUntil(t, func() bool {
		_, _, _, err := a.Execute(context.Background(), stack)
		return err != nil
	})

	require.NoError(t, a.InitializeCursor(context.Background()))

	_, _, _, err := a.Execute(context.Background(), stack)
	assert.ErrorIs(t, err, boom, "an error already observed by the consumer must survive a re-initialize")
}

func TestAsyncInitializeCursorDiscardsUnobservedError(t *testing.T) {
	boom := errors.New("boom")
	src := &blockingSource{release: make(chan struct{}), err: boom}
	shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
	a := New("async", src, shared, nil)

	a.mu.Lock()
	a.phase = gotException
	a.err = boom
	a.observed = false
	a.mu.Unlock()

	require.NoError(t, a.InitializeCursor(context.Background()))

	a.mu.Lock()
	gotPhase := a.phase
	gotErr := a.err
	a.mu.Unlock()
	assert.Equal(t, empty, gotPhase)
	assert.Nil(t, gotErr)
}
