package marking

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"markpool/internal/logging"
	"markpool/internal/rubric"
)

// RubricStore persists the rubric.
type RubricStore interface {
	Load() (rubric.Rubric, error)
	Save(rubric.Rubric) error
}

// Revision is the outcome of one committed rubric change.
type Revision struct {
	Question int
	Before   byte
	After    byte
	SaveErr  error
}

// Revise increments rubric entry q and writes the whole rubric through to
// store, all under the rubric guard. Concurrent revisions of the same entry are
// applied one after the other; the last to commit is what storage holds.
func (s *State) Revise(q int, store RubricStore) Revision {
	s.rubricGuard.Lock()
	defer s.rubricGuard.Unlock()

	before := byte(s.letters[q].Load())
	after := rubric.Revise(before)
	s.letters[q].Store(uint32(after))
	s.revisions.Add(1)

	var err error
	if store != nil {
		err = store.Save(s.Rubric())
	}
	return Revision{Question: q, Before: before, After: after, SaveErr: err}
}

// Reviser runs one grader's rubric review.
type Reviser struct {
	worker      int
	state       *State
	store       RubricStore
	probability float64
	pacing      Pacing
	rng         *rand.Rand
	sleep       Sleeper
	logger      *slog.Logger
	recorder    Recorder
}

// Review walks every rubric entry. Each entry costs a review delay; then the
// grader revises it with the configured probability.
func (r *Reviser) Review() {
	for q := 0; q < rubric.Size; q++ {
		r.sleep(r.pacing.review(r.rng))

		if r.rng.Float64() >= r.probability {
			r.logger.Debug("rubric entry unchanged",
				logging.Int(logging.FieldQuestion, q+1),
				logging.String("letter", string(rune(r.state.letters[q].Load()))),
			)
			continue
		}

		rev := r.state.Revise(q, r.store)
		r.logger.Info("rubric revised",
			logging.Int(logging.FieldQuestion, q+1),
			logging.String("before", string(rune(rev.Before))),
			logging.String("after", string(rune(rev.After))),
		)
		if rev.SaveErr != nil {
			logging.WarnWithContext(r.logger, "rubric write-back failed", "rubric_save_failed",
				logging.Int(logging.FieldQuestion, q+1),
				logging.Error(rev.SaveErr),
				logging.String(logging.FieldImpact, "revision kept in memory only"),
				logging.String(logging.FieldErrorHint, "check permissions on the data directory"),
			)
		}

		item := r.state.Item()
		r.recorder.Record(Event{
			Kind:      EventRubricRevised,
			At:        time.Now(),
			Worker:    r.worker,
			ItemIndex: item.Index,
			ItemID:    item.ID,
			Question:  q,
			Detail:    string([]byte{rev.Before, '>', rev.After}),
		})
	}
}
