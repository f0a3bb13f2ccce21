package marking

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"markpool/internal/logging"
)

// Worker is one grader. Run loops until it observes the stop flag.
type Worker struct {
	id           int
	state        *State
	reviser      *Reviser
	transitioner *Transitioner
	pacing       Pacing
	rng          *rand.Rand
	sleep        Sleeper
	logger       *slog.Logger
	recorder     Recorder
}

// ID returns the grader's index within the pool.
func (w *Worker) ID() int {
	return w.id
}

// Run alternates a rubric review with marking questions of the current exam.
func (w *Worker) Run() {
	for {
		if w.state.Stopped() {
			w.logger.Info("grader exiting")
			return
		}

		w.logger.Info("reviewing exam", logging.Int(logging.FieldItemID, w.state.Item().ID))
		w.reviser.Review()

		if !w.markQuestions() {
			w.logger.Info("grader exiting while marking")
			return
		}
	}
}

// markQuestions claims and marks questions until none are left. It returns
// false when the stop flag was observed.
func (w *Worker) markQuestions() bool {
	for {
		if w.state.Stopped() {
			return false
		}

		q, ok := w.state.Claim()
		if !ok {
			// Everything is handed out; wait for the exam to change.
			w.sleep(w.pacing.IdleBackoff)
			return true
		}
		item := w.state.Item()
		w.record(EventSubtaskClaimed, item.Index, item.ID, q)

		w.sleep(w.pacing.mark(w.rng))

		remaining := w.state.Complete()
		w.logger.Info("question marked",
			logging.Int(logging.FieldQuestion, q+1),
			logging.Int(logging.FieldItemID, item.ID),
			logging.Int("remaining", remaining),
		)
		w.record(EventSubtaskCompleted, item.Index, item.ID, q)

		if remaining == 0 {
			w.transitioner.Transition(w.id)
		}
	}
}

func (w *Worker) record(kind EventKind, index, id, question int) {
	w.recorder.Record(Event{
		Kind:      kind,
		At:        time.Now(),
		Worker:    w.id,
		ItemIndex: index,
		ItemID:    id,
		Question:  question,
	})
}
