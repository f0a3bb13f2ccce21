package marking_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"markpool/internal/config"
	"markpool/internal/marking"
)

func TestPoolRunsEveryWorker(t *testing.T) {
	pool := marking.NewPool(5, 2)
	var seen atomic.Int32
	err := pool.Run(context.Background(), func(_ context.Context, worker int) error {
		seen.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen.Load() != 5 {
		t.Fatalf("expected 5 workers, got %d", seen.Load())
	}
}

func TestPoolNeverRunsFewerThanTwoWorkers(t *testing.T) {
	cases := []struct {
		requested, floor int
	}{
		{1, 1},
		{0, 0},
		{-3, 1},
		{1, 2},
	}
	for _, tc := range cases {
		pool := marking.NewPool(tc.requested, tc.floor)
		if pool.Size() != config.MinWorkersFloor {
			t.Fatalf("NewPool(%d, %d).Size() = %d, want %d", tc.requested, tc.floor, pool.Size(), config.MinWorkersFloor)
		}
		var seen atomic.Int32
		if err := pool.Run(context.Background(), func(context.Context, int) error {
			seen.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if int(seen.Load()) != config.MinWorkersFloor {
			t.Fatalf("expected %d workers to run, got %d", config.MinWorkersFloor, seen.Load())
		}
	}
}

func TestPoolJoinsErrorsAndPanics(t *testing.T) {
	pool := marking.NewPool(3, 1)
	sentinel := errors.New("boom")
	var panicked atomic.Int32
	pool.OnPanic(func(worker int, value any) {
		if worker == 2 {
			panicked.Add(1)
		}
	})

	err := pool.Run(context.Background(), func(_ context.Context, worker int) error {
		switch worker {
		case 1:
			return sentinel
		case 2:
			panic("bad grader")
		}
		return nil
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected joined worker error, got %v", err)
	}
	if !strings.Contains(err.Error(), "worker 2 panicked: bad grader") {
		t.Fatalf("expected panic in error, got %v", err)
	}
	if panicked.Load() != 1 {
		t.Fatalf("expected panic callback once, got %d", panicked.Load())
	}
}
