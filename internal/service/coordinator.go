package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/prasad123-hub/bill-splitter/internal/metrics"
)

var (
	// ErrBusy is returned when a group's exclusive section could not be
	// acquired before the configured timeout. Safe for the caller to retry
	// after backoff.
	ErrBusy = errors.New("group is busy, retry later")

	// ErrPartialFailure is returned when a settlement's ledger update
	// succeeded but the audit log append did not. The ledger is correct;
	// the caller may retry the append with the same settlement ID.
	ErrPartialFailure = errors.New("settlement recorded partially")
)

// GroupLocker serializes ledger mutations per group: at most one mutation
// may be mid-flight for a given group at any time, while different groups
// proceed independently. Acquisition is bounded, so a backlog on one hot
// group surfaces as ErrBusy instead of an unbounded queue.
type GroupLocker struct {
	timeout time.Duration

	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewGroupLocker creates a locker whose Acquire waits at most timeout.
func NewGroupLocker(timeout time.Duration) *GroupLocker {
	return &GroupLocker{
		timeout: timeout,
		sems:    make(map[string]*semaphore.Weighted),
	}
}

func (l *GroupLocker) sem(groupID string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.sems[groupID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[groupID] = sem
	}
	return sem
}

// Acquire enters the group's exclusive section, waiting up to the configured
// timeout. It returns a release function that must be called exactly once.
// Caller cancellation propagates through ctx, so an abandoned request never
// leaves the group locked.
func (l *GroupLocker) Acquire(ctx context.Context, groupID string) (release func(), err error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	sem := l.sem(groupID)
	if err := sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			// The caller went away; report their cancellation, not ours.
			return nil, ctx.Err()
		}
		metrics.LockTimeouts.Inc()
		return nil, ErrBusy
	}
	return func() { sem.Release(1) }, nil
}

// Forget drops the group's entry so the map does not grow without bound as
// groups are deleted. A goroutine already waiting on the old entry still
// completes against it; any later Acquire gets a fresh one.
func (l *GroupLocker) Forget(groupID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sems, groupID)
}
