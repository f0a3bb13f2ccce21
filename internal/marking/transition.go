package marking

import (
	"log/slog"
	"time"

	"markpool/internal/exam"
	"markpool/internal/logging"
)

// ItemSource loads exams by index. A false result means there is no exam at
// that index, which ends the run normally.
type ItemSource interface {
	Load(index int) (exam.Item, bool)
}

// Transitioner moves the shared State past a fully marked exam.
type Transitioner struct {
	state    *State
	source   ItemSource
	logger   *slog.Logger
	recorder Recorder
}

// NewTransitioner returns a Transitioner over state that loads exams from source.
func NewTransitioner(state *State, source ItemSource, logger *slog.Logger, recorder Recorder) *Transitioner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Transitioner{state: state, source: source, logger: logger, recorder: recorder}
}

// Transition is called by the grader whose Complete returned zero. Under the
// transition guard it either stops the run (sentinel exam, or no next exam) or
// loads the next exam and resets the questions. It reports whether this call
// performed the transition; false means the run had already stopped.
func (t *Transitioner) Transition(worker int) bool {
	s := t.state
	s.transition.Lock()
	defer s.transition.Unlock()

	if s.stop.Load() {
		return false
	}
	s.transitions.Add(1)

	current := s.Item()
	if current.IsSentinel() {
		s.raiseStop(StopSentinel)
		t.logger.Info("sentinel exam marked, stopping",
			logging.Int(logging.FieldWorker, worker),
			logging.Int(logging.FieldItemID, current.ID),
			logging.String(logging.FieldEventType, "run_stop"),
		)
		t.record(EventStopped, worker, current, string(StopSentinel))
		return true
	}

	nextIndex := current.Index + 1
	s.itemIndex.Store(int64(nextIndex))
	next, ok := t.source.Load(nextIndex)
	if !ok {
		s.raiseStop(StopExhausted)
		t.logger.Info("no further exams, stopping",
			logging.Int(logging.FieldWorker, worker),
			logging.Int(logging.FieldItemIndex, nextIndex),
			logging.String(logging.FieldEventType, "run_stop"),
		)
		t.record(EventStopped, worker, exam.Item{Index: nextIndex, ID: current.ID}, string(StopExhausted))
		return true
	}

	s.selection.Lock()
	for q := range s.done {
		s.done[q].Store(false)
	}
	s.remaining.Store(exam.Questions)
	s.itemID.Store(int64(next.ID))
	s.selection.Unlock()

	t.logger.Info("loaded next exam",
		logging.Int(logging.FieldWorker, worker),
		logging.Int(logging.FieldItemIndex, next.Index),
		logging.Int(logging.FieldItemID, next.ID),
		logging.Bool("sentinel", next.IsSentinel()),
	)
	t.record(EventItemAdvanced, worker, current, "")
	t.record(EventItemLoaded, worker, next, "")
	return true
}

func (t *Transitioner) record(kind EventKind, worker int, item exam.Item, detail string) {
	t.recorder.Record(Event{
		Kind:      kind,
		At:        time.Now(),
		Worker:    worker,
		ItemIndex: item.Index,
		ItemID:    item.ID,
		Question:  -1,
		Detail:    detail,
	})
}
