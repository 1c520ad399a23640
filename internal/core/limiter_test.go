package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchLimiterAcquireRelease(t *testing.T) {
	l := NewBatchLimiter(2, time.Second)
	ctx := context.Background()

	if got := l.Available(); got != 2 {
		t.Fatalf("Available() = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() #%d error = %v", i+1, err)
		}
	}
	if got := l.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}
	if got := l.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}

	l.Release()
	l.Release()
	if got := l.Active(); got != 0 {
		t.Errorf("Active() after Release = %d, want 0", got)
	}
}

func TestBatchLimiterBusy(t *testing.T) {
	l := NewBatchLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer l.Release()

	start := time.Now()
	err := l.Acquire(ctx)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Acquire() error = %v, want ErrBusy", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire() gave up after %v, want about 50ms", elapsed)
	}
}

func TestBatchLimiterCancelledWait(t *testing.T) {
	l := NewBatchLimiter(1, 5*time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire() did not return after cancellation")
	}
}

func TestBatchLimiterTryAcquire(t *testing.T) {
	l := NewBatchLimiter(1, time.Second)

	if !l.TryAcquire() {
		t.Fatal("first TryAcquire() = false, want true")
	}
	if l.TryAcquire() {
		t.Error("second TryAcquire() = true, want false")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire() after Release = false, want true")
	}
	l.Release()
}

func TestBatchLimiterNeverExceedsCapacity(t *testing.T) {
	const capacity = 3
	l := NewBatchLimiter(capacity, time.Second)

	var wg sync.WaitGroup
	var peak atomic.Int64

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer l.Release()

			n := int64(l.Active())
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > capacity {
		t.Errorf("peak Active() = %d, want <= %d", got, capacity)
	}
}

func TestBatchLimiterDrain(t *testing.T) {
	l := NewBatchLimiter(2, time.Second)
	l.Acquire(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Drain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Drain() returned while a batch was active")
	case <-time.After(100 * time.Millisecond):
	}

	l.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Drain() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Drain() did not return after Release")
	}
}

func TestBatchLimiterDrainCancelled(t *testing.T) {
	l := NewBatchLimiter(1, time.Second)
	l.Acquire(context.Background())
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Drain() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestBatchLimiterDefaults(t *testing.T) {
	l := NewBatchLimiter(0, 0)
	if got := l.Capacity(); got != DefaultMaxConcurrentBatches {
		t.Errorf("Capacity() = %d, want %d", got, DefaultMaxConcurrentBatches)
	}
}
