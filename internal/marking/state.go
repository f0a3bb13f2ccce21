package marking

import (
	"sync/atomic"

	"markpool/internal/config"
	"markpool/internal/exam"
	"markpool/internal/rubric"
)

// State is the single record every grader shares.
//
// Fields are atomics so that ModeUnsynchronized shows check-then-act races
// rather than torn memory. Atomicity of a single field is not what the guards
// provide: every multi-step read-modify-write below is only correct while its
// guard is held.
type State struct {
	mode config.Mode

	// rubric domain
	rubricGuard Guard
	letters     [rubric.Size]atomic.Uint32

	// selection domain
	selection Guard
	done      [exam.Questions]atomic.Bool
	remaining atomic.Int64

	// transition domain; stop is read without a guard
	transition Guard
	itemID     atomic.Int64
	itemIndex  atomic.Int64
	stop       atomic.Bool
	stopReason atomic.Value

	// test hooks, run between the read and the write of a check-then-act
	claimHook    func(question int)
	completeHook func()

	claims      atomic.Int64
	completions atomic.Int64
	revisions   atomic.Int64
	transitions atomic.Int64
	stopRaised  atomic.Int64
}

// NewState returns a State holding r and first, with no question claimed.
func NewState(mode config.Mode, r rubric.Rubric, first exam.Item) *State {
	s := &State{
		mode:        mode,
		rubricGuard: newGuard(mode),
		selection:   newGuard(mode),
		transition:  newGuard(mode),
	}
	for i, letter := range r {
		s.letters[i].Store(uint32(letter))
	}
	s.itemIndex.Store(int64(first.Index))
	s.itemID.Store(int64(first.ID))
	s.remaining.Store(exam.Questions)
	s.stopReason.Store(StopNone)
	return s
}

// Mode reports the coordination mode.
func (s *State) Mode() config.Mode {
	return s.mode
}

// Stopped reports whether the stop flag is raised.
func (s *State) Stopped() bool {
	return s.stop.Load()
}

// StopReason returns why the run stopped, or StopNone.
func (s *State) StopReason() StopReason {
	return s.stopReason.Load().(StopReason)
}

// Item returns the exam currently being marked.
func (s *State) Item() exam.Item {
	return exam.Item{Index: int(s.itemIndex.Load()), ID: int(s.itemID.Load())}
}

// Rubric returns the current letters. Callers that need a consistent view
// must hold the rubric guard.
func (s *State) Rubric() rubric.Rubric {
	var r rubric.Rubric
	for i := range s.letters {
		r[i] = byte(s.letters[i].Load())
	}
	return r
}

// RequestStop raises the stop flag from outside the grader loop. It returns
// false if the run had already stopped.
func (s *State) RequestStop(reason StopReason) bool {
	s.transition.Lock()
	defer s.transition.Unlock()
	return s.raiseStop(reason)
}

// raiseStop must be called with the transition guard held. It also takes the
// selection guard so no claim can succeed once stop is visible.
func (s *State) raiseStop(reason StopReason) bool {
	s.selection.Lock()
	defer s.selection.Unlock()
	if s.stop.Load() {
		return false
	}
	s.stopReason.Store(reason)
	s.stop.Store(true)
	s.stopRaised.Add(1)
	return true
}

// Snapshot is a point-in-time copy of State for reporting and tests.
type Snapshot struct {
	Mode        config.Mode
	Item        exam.Item
	Rubric      rubric.Rubric
	Done        [exam.Questions]bool
	Remaining   int
	Stopped     bool
	StopReason  StopReason
	Claims      int
	Completions int
	Revisions   int
	Transitions int
	StopRaised  int
}

// Snapshot copies the current state without taking any guard.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:        s.mode,
		Item:        s.Item(),
		Rubric:      s.Rubric(),
		Remaining:   int(s.remaining.Load()),
		Stopped:     s.Stopped(),
		StopReason:  s.StopReason(),
		Claims:      int(s.claims.Load()),
		Completions: int(s.completions.Load()),
		Revisions:   int(s.revisions.Load()),
		Transitions: int(s.transitions.Load()),
		StopRaised:  int(s.stopRaised.Load()),
	}
	for i := range s.done {
		snap.Done[i] = s.done[i].Load()
	}
	return snap
}
