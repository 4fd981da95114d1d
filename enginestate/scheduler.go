// Package enginestate implements the shared suspension-coordination
// layer of spec.md §4.8 and §6: a bounded priority work queue
// (Scheduler) and the mutex-protected coordinator (SharedQueryState)
// that async-suspending blocks use to hand work to it and be woken
// back up.
//
// Grounded on the teacher's foreach.go worker pool (`newWorkerPool`,
// one goroutine per worker pulling scopes off a channel) for the
// bounded-concurrency shape, generalized from a fixed-size channel pool
// to a golang.org/x/sync/semaphore-gated submit, since the teacher's
// pool has no notion of rejecting work once full (it simply blocks the
// producer), whereas spec.md §4.8 requires a non-blocking "queued?"
// signal so the caller can fall back to running inline.
package enginestate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Priority selects which of the Scheduler's two reserved pools a task
// competes for (spec.md §6: "at least HIGH ... and LOW").
type Priority int

const (
	// LOW is used for background async-subtree execution.
	LOW Priority = iota
	// HIGH is used for resumption callbacks, so a saturated background
	// workload never starves a consumer wakeup.
	HIGH
)

// Scheduler is a bounded goroutine pool split into a small reserved
// HIGH lane and the remaining LOW lane, so HIGH-priority resumption
// callbacks always have capacity independent of how many background
// async tasks are in flight.
type Scheduler struct {
	high *semaphore.Weighted
	low  *semaphore.Weighted
}

// NewScheduler builds a Scheduler bounding total concurrent tasks at
// maxTasks, reserving one quarter (minimum 1) of that budget for HIGH
// priority work.
func NewScheduler(maxTasks int64) *Scheduler {
	if maxTasks < 2 {
		maxTasks = 2
	}
	highCap := maxTasks / 4
	if highCap < 1 {
		highCap = 1
	}
	lowCap := maxTasks - highCap
	if lowCap < 1 {
		lowCap = 1
	}
	return &Scheduler{
		high: semaphore.NewWeighted(highCap),
		low:  semaphore.NewWeighted(lowCap),
	}
}

// Queue attempts to run task on a pool goroutine, returning false if
// the relevant lane's capacity is exhausted (spec.md §4.8: "returns
// false if capacity exhausted, in which case the caller must execute
// inline").
func (s *Scheduler) Queue(priority Priority, task func()) bool {
	sem := s.low
	if priority == HIGH {
		sem = s.high
	}
	if !sem.TryAcquire(1) {
		return false
	}
	go func() {
		defer sem.Release(1)
		task()
	}()
	return true
}

// QueueBlocking runs task on a pool goroutine once a slot becomes
// available. If ctx is done before a slot frees, it returns ctx's error
// and task does not run.
func (s *Scheduler) QueueBlocking(ctx context.Context, priority Priority, task func()) error {
	sem := s.low
	if priority == HIGH {
		sem = s.high
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer sem.Release(1)
		task()
	}()
	return nil
}
