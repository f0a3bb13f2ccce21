package marking

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"markpool/internal/config"
	"markpool/internal/exam"
	"markpool/internal/rubric"
)

func newTestState(mode config.Mode) *State {
	return NewState(mode, rubric.Rubric{'A', 'B', 'C', 'D', 'E'}, exam.Item{Index: 1, ID: 42})
}

// pairUp blocks the first two callers until both have arrived.
func pairUp() (hook func(), release func()) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	gate := make(chan struct{})
	hook = func() {
		arrived.Done()
		<-gate
	}
	release = func() {
		arrived.Wait()
		close(gate)
	}
	return hook, release
}

func TestUnsynchronizedClaimHandsOutSameQuestionTwice(t *testing.T) {
	s := newTestState(config.ModeUnsynchronized)
	hook, release := pairUp()
	s.claimHook = func(int) { hook() }

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			q, ok := s.Claim()
			if !ok {
				q = -1
			}
			results <- q
		}()
	}
	release()

	first, second := <-results, <-results
	if first != 0 || second != 0 {
		t.Fatalf("expected both graders to claim question 0, got %d and %d", first, second)
	}
}

func TestUnsynchronizedCompleteLosesUpdate(t *testing.T) {
	s := newTestState(config.ModeUnsynchronized)
	hook, release := pairUp()
	s.completeHook = hook

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- s.Complete() }()
	}
	release()
	<-results
	<-results

	if got := s.Snapshot().Remaining; got != exam.Questions-1 {
		t.Fatalf("expected a lost decrement leaving %d, got %d", exam.Questions-1, got)
	}
}

func TestGuardedClaimNeverOverlaps(t *testing.T) {
	s := newTestState(config.ModeGuarded)
	var inside, maxInside atomic.Int32
	s.claimHook = func(int) {
		n := inside.Add(1)
		for {
			cur := maxInside.Load()
			if n <= cur || maxInside.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inside.Add(-1)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Claim()
		}()
	}
	wg.Wait()

	if maxInside.Load() != 1 {
		t.Fatalf("expected claims to be serialized, saw %d concurrent", maxInside.Load())
	}
	if s.Snapshot().Claims != exam.Questions {
		t.Fatalf("expected %d claims, got %d", exam.Questions, s.Snapshot().Claims)
	}
}

func TestGuardedCompleteKeepsEveryDecrement(t *testing.T) {
	s := newTestState(config.ModeGuarded)
	s.completeHook = func() { time.Sleep(time.Millisecond) }

	var zeros atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < exam.Questions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Complete() == 0 {
				zeros.Add(1)
			}
		}()
	}
	wg.Wait()

	if zeros.Load() != 1 {
		t.Fatalf("expected exactly one completion to observe zero, got %d", zeros.Load())
	}
	if s.Snapshot().Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", s.Snapshot().Remaining)
	}
}
