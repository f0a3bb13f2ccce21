package marking

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"markpool/internal/config"
	"markpool/internal/exam"
	"markpool/internal/logging"
	"markpool/internal/rubric"
)

// Options configures an Engine.
type Options struct {
	Workers           int
	MinWorkers        int
	Pacing            Pacing
	ReviseProbability float64
	// Seed makes grader randomness reproducible; zero picks a random seed.
	Seed     uint64
	Sleep    Sleeper
	Logger   *slog.Logger
	Recorder Recorder
}

// OptionsFromConfig fills Options from cfg for the requested worker count.
func OptionsFromConfig(cfg *config.Config, workers int) Options {
	return Options{
		Workers:           workers,
		MinWorkers:        cfg.Marking.MinWorkers,
		Pacing:            PacingFromConfig(cfg),
		ReviseProbability: cfg.Marking.ReviseProbability,
	}
}

// Prepare loads the rubric and the first exam and returns the initial State.
// Any failure is a *StartupError.
func Prepare(mode config.Mode, store RubricStore, source ItemSource, firstIndex int) (*State, error) {
	r, err := store.Load()
	if err != nil {
		return nil, &StartupError{Op: "load rubric", Err: err}
	}
	first, ok := source.Load(firstIndex)
	if !ok {
		return nil, &StartupError{Op: "load exam", Err: fmt.Errorf("%w: %s", ErrFirstExam, exam.FileName(firstIndex))}
	}
	return NewState(mode, r, first), nil
}

// Summary reports the outcome of a run.
type Summary struct {
	Workers     int
	Mode        config.Mode
	StopReason  StopReason
	Final       exam.Item
	Rubric      rubric.Rubric
	Claims      int
	Completions int
	Revisions   int
	Transitions int
	Elapsed     time.Duration
}

// Engine runs the grader pool over one State.
type Engine struct {
	state        *State
	store        RubricStore
	transitioner *Transitioner
	pool         *Pool
	opts         Options
	logger       *slog.Logger
	recorder     Recorder
}

// NewEngine wires graders for state. store receives rubric write-backs and
// source supplies the exams after the first.
func NewEngine(state *State, store RubricStore, source ItemSource, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if opts.Sleep == nil {
		opts.Sleep = defaultSleep
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	return &Engine{
		state:        state,
		store:        store,
		transitioner: NewTransitioner(state, source, logging.NewComponentLogger(logger, "transition"), recorder),
		pool:         NewPool(opts.Workers, opts.MinWorkers),
		opts:         opts,
		logger:       logger,
		recorder:     recorder,
	}
}

// State returns the shared state the engine drives.
func (e *Engine) State() *State {
	return e.state
}

// Workers returns the effective pool size after the floor is applied.
func (e *Engine) Workers() int {
	return e.pool.Size()
}

// NewWorker builds grader id. Run uses it for every pool slot.
func (e *Engine) NewWorker(id int) *Worker {
	rng := rand.New(rand.NewPCG(e.opts.Seed, uint64(id)+1))
	logger := logging.NewComponentLogger(e.logger, "grader").With(logging.Int(logging.FieldWorker, id))
	return &Worker{
		id:    id,
		state: e.state,
		reviser: &Reviser{
			worker:      id,
			state:       e.state,
			store:       e.store,
			probability: e.opts.ReviseProbability,
			pacing:      e.opts.Pacing,
			rng:         rng,
			sleep:       e.opts.Sleep,
			logger:      logger,
			recorder:    e.recorder,
		},
		transitioner: e.transitioner,
		pacing:       e.opts.Pacing,
		rng:          rng,
		sleep:        e.opts.Sleep,
		logger:       logger,
		recorder:     e.recorder,
	}
}

// Run starts the graders and blocks until all have exited. Cancelling ctx
// raises the stop flag; graders notice it at their next loop boundary.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	first := e.state.Item()
	e.recorder.Record(Event{Kind: EventItemLoaded, At: started, Worker: -1, ItemIndex: first.Index, ItemID: first.ID, Question: -1})

	e.logger.Info("starting graders",
		logging.Int("workers", e.pool.Size()),
		logging.String("mode", string(e.state.Mode())),
		logging.Int(logging.FieldItemID, first.ID),
	)

	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if e.state.RequestStop(StopInterrupted) {
				e.logger.Info("interrupt received, graders will stop at the next check")
				e.recorder.Record(Event{Kind: EventStopped, At: time.Now(), Worker: -1, Question: -1, Detail: string(StopInterrupted)})
			}
		case <-finished:
		}
	}()

	e.pool.OnPanic(func(worker int, value any) {
		if e.state.RequestStop(StopAborted) {
			logging.ErrorWithContext(e.logger, "grader panicked, stopping run", "grader_panic",
				logging.Int(logging.FieldWorker, worker),
				logging.Any("panic", value),
			)
			e.recorder.Record(Event{Kind: EventStopped, At: time.Now(), Worker: worker, Question: -1, Detail: string(StopAborted)})
		}
	})

	err := e.pool.Run(ctx, func(_ context.Context, id int) error {
		e.NewWorker(id).Run()
		return nil
	})
	close(finished)

	snap := e.state.Snapshot()
	summary := Summary{
		Workers:     e.pool.Size(),
		Mode:        snap.Mode,
		StopReason:  snap.StopReason,
		Final:       snap.Item,
		Rubric:      snap.Rubric,
		Claims:      snap.Claims,
		Completions: snap.Completions,
		Revisions:   snap.Revisions,
		Transitions: snap.Transitions,
		Elapsed:     time.Since(started),
	}
	return summary, err
}
