package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunPoolProcessesEveryJob(t *testing.T) {
	jobs := make([]int, 1000)
	for i := range jobs {
		jobs[i] = i + 1
	}

	var sum atomic.Int64
	workers, err := RunPool(context.Background(), PoolConfig{Workers: 4}, jobs, func(_ context.Context, w int, j int) error {
		if w < 0 || w >= 4 {
			t.Errorf("worker index out of range: %d", w)
		}
		sum.Add(int64(j))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workers != 4 {
		t.Fatalf("workers = %d, want 4", workers)
	}
	if got := sum.Load(); got != 500500 {
		t.Fatalf("sum = %d, want 500500", got)
	}
}

func TestRunPoolClampsWorkersToJobs(t *testing.T) {
	workers, err := RunPool(context.Background(), PoolConfig{Workers: 16}, []int{1, 2}, func(context.Context, int, int) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workers != 2 {
		t.Fatalf("workers = %d, want 2", workers)
	}
}

func TestRunPoolStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	jobs := make([]int, 100)
	_, err := RunPool(context.Background(), PoolConfig{Workers: 2}, jobs, func(context.Context, int, int) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestRunPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	_, err := RunPool(ctx, PoolConfig{Workers: 2}, make([]int, 50), func(context.Context, int, int) error {
		ran.Add(1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ran.Load() != 0 {
		t.Fatalf("no job should run after cancellation, ran %d", ran.Load())
	}
}
