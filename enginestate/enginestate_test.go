package enginestate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerQueueRunsTaskOnAWorker(t *testing.T) {
	s := NewScheduler(4)
	done := make(chan struct{})
	ok := s.Queue(LOW, func() { close(done) })
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestSchedulerHighLaneStaysAvailableWhenLowLaneIsSaturated(t *testing.T) {
	s := NewScheduler(4) // highCap=1, lowCap=3
	block := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 3; i++ {
		wg.Add(1)
		ok := s.Queue(LOW, func() {
			defer wg.Done()
			<-block
		})
		require.True(t, ok)
	}

	ok := s.Queue(LOW, func() {})
	assert.False(t, ok, "low lane should be saturated")

	highRan := make(chan struct{})
	ok = s.Queue(HIGH, func() { close(highRan) })
	assert.True(t, ok, "high lane must have reserved capacity")

	select {
	case <-highRan:
	case <-time.After(time.Second):
		t.Fatal("high priority task starved by saturated low lane")
	}

	close(block)
	wg.Wait()
}

func TestSharedQueryStateExecuteAndWakeupSignalsOnlyOnTrue(t *testing.T) {
	sched := NewScheduler(4)
	s := NewSharedQueryState(sched)

	var woken int32
	wakeCh := make(chan struct{}, 4)
	s.SetWakeupHandler(func() {
		atomic.AddInt32(&woken, 1)
		wakeCh <- struct{}{}
	})

	s.ExecuteAndWakeup(func() bool { return false })
	select {
	case <-wakeCh:
		t.Fatal("handler should not have run")
	case <-time.After(50 * time.Millisecond):
	}

	s.ExecuteAndWakeup(func() bool { return true })
	select {
	case <-wakeCh:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&woken))
}

func TestSharedQueryStateInvalidateMarksInvalidAndWakes(t *testing.T) {
	s := NewSharedQueryState(NewScheduler(4))
	woken := make(chan struct{})
	s.SetWakeupHandler(func() { close(woken) })

	assert.True(t, s.Valid())
	s.Invalidate()
	assert.False(t, s.Valid())

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("invalidate did not wake waiters")
	}
}

func TestSharedQueryStateAsyncExecuteAndWakeupReportsCapacity(t *testing.T) {
	s := NewSharedQueryState(NewScheduler(2)) // lowCap=1
	block := make(chan struct{})
	defer close(block)

	queued := s.AsyncExecuteAndWakeup(func() { <-block })
	require.True(t, queued)

	queued = s.AsyncExecuteAndWakeup(func() {})
	assert.False(t, queued, "caller must run inline once capacity is exhausted")
}
