package core

// limiter.go bounds how many analysis batches run at once.
//
// A batch holds one unit of a weighted semaphore for its whole run.
// Callers that find every slot taken wait up to maxWait and then get
// ErrBusy. Drain blocks shutdown until running batches finish.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when no batch slot frees up within the wait time.
var ErrBusy = errors.New("too many uploads in progress, please try again later")

// Default limiter settings.
const (
	DefaultMaxConcurrentBatches = 5
	DefaultMaxWaitTime          = 30 * time.Second
)

// drainPoll is how often Drain re-checks the active count.
const drainPoll = 50 * time.Millisecond

// BatchLimiter is a counting semaphore for analysis batches.
type BatchLimiter struct {
	sem      *semaphore.Weighted
	capacity int
	maxWait  time.Duration
	active   atomic.Int64
}

// NewBatchLimiter allows maxConcurrent simultaneous batches. Non-positive
// arguments take the defaults.
func NewBatchLimiter(maxConcurrent int, maxWait time.Duration) *BatchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentBatches
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &BatchLimiter{
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		capacity: maxConcurrent,
		maxWait:  maxWait,
	}
}

// Acquire takes a slot, waiting at most the configured time. It returns
// ctx.Err() if ctx ends first and ErrBusy on timeout. Every successful
// Acquire must be paired with Release.
func (l *BatchLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return ErrBusy
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (l *BatchLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *BatchLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of running batches.
func (l *BatchLimiter) Active() int {
	return int(l.active.Load())
}

// Capacity returns the maximum number of simultaneous batches.
func (l *BatchLimiter) Capacity() int {
	return l.capacity
}

// Available returns the number of free slots.
func (l *BatchLimiter) Available() int {
	return l.capacity - l.Active()
}

// Drain blocks until no batch is running or ctx ends.
func (l *BatchLimiter) Drain(ctx context.Context) error {
	if l.Active() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Active() == 0 {
				return nil
			}
		}
	}
}
