package enginestate

import "sync"

// SharedQueryState is the central coordinator of spec.md §4.8 for any
// block that suspends: it owns the query-kill flag's wakeup fan-out,
// arbitrates background task submission through a Scheduler, and holds
// the single wakeup handler the outer driver registers so a completed
// background task can schedule the consumer back onto a worker.
//
// Grounded directly on spec.md §4.8 (no teacher analogue: vfilter has
// no suspend/resume protocol, only channel blocking); the mutex-guarded
// callback shape mirrors original_source/arangod/Aql/SharedQueryState.h.
type SharedQueryState struct {
	scheduler *Scheduler

	mu            sync.Mutex
	valid         bool
	wakeupHandler func()
}

// NewSharedQueryState builds a SharedQueryState backed by scheduler.
func NewSharedQueryState(scheduler *Scheduler) *SharedQueryState {
	return &SharedQueryState{scheduler: scheduler, valid: true}
}

// SetWakeupHandler registers the callback invoked (on a scheduler
// worker, HIGH priority) whenever a background task completes or the
// query is invalidated. Exactly one handler is active at a time,
// mirroring the single outer driver a block suspends underneath.
func (s *SharedQueryState) SetWakeupHandler(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wakeupHandler = handler
}

// Valid reports whether the query is still live.
func (s *SharedQueryState) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Invalidate marks the query terminated and wakes all waiters so any
// in-flight background task observes cancellation on its next check
// (spec.md §5 "Cancellation during a WAITING state is delivered via
// the shared query state's invalidate()").
func (s *SharedQueryState) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
	s.wakeup()
}

// ExecuteLocked runs callback under the shared lock, for state
// transitions that do not themselves need to wake the consumer.
func (s *SharedQueryState) ExecuteLocked(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	callback()
}

// ExecuteAndWakeup runs callback under the shared lock and, if it
// reports true, schedules the registered wakeup handler afterward
// (spec.md §4.8: "additionally signals the consumer if the callback
// returns true").
func (s *SharedQueryState) ExecuteAndWakeup(callback func() bool) {
	s.mu.Lock()
	wake := callback()
	s.mu.Unlock()
	if wake {
		s.wakeup()
	}
}

// AsyncExecuteAndWakeup attempts to enqueue task as LOW priority
// background work, returning false if the scheduler's capacity is
// exhausted; the caller is then responsible for running task inline
// (spec.md §4.8).
func (s *SharedQueryState) AsyncExecuteAndWakeup(task func()) bool {
	return s.scheduler.Queue(LOW, task)
}

// wakeup schedules the registered handler as HIGH priority work,
// falling back to calling it inline (on whatever goroutine triggered
// the wakeup) if the scheduler's HIGH lane is itself saturated, so a
// wakeup is never silently dropped.
func (s *SharedQueryState) wakeup() {
	s.mu.Lock()
	handler := s.wakeupHandler
	s.mu.Unlock()
	if handler == nil {
		return
	}
	if !s.scheduler.Queue(HIGH, handler) {
		handler()
	}
}
