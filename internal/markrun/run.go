// Package markrun wires configuration, logging, storage and the grader pool
// into a single marking run.
package markrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"markpool/internal/config"
	"markpool/internal/exam"
	"markpool/internal/journal"
	"markpool/internal/logging"
	"markpool/internal/marking"
	"markpool/internal/preflight"
	"markpool/internal/rubric"
)

// ErrAlreadyRunning reports that another run holds the data directory lock.
var ErrAlreadyRunning = errors.New("another markpool run is using this data directory")

const journalCloseTimeout = 5 * time.Second

// Options configures one run.
type Options struct {
	Workers int
	// Mode overrides cfg.Marking.Mode when set.
	Mode     config.Mode
	LogLevel string
	// Seed fixes grader randomness; zero picks one at random.
	Seed uint64
	// Logger replaces the logger built from cfg.
	Logger *slog.Logger
}

// Result is what a run reports back to the CLI.
type Result struct {
	Summary marking.Summary
	// RunID is the journal id, empty when the journal is disabled or unavailable.
	RunID string
}

// Run performs one marking run and blocks until every grader has exited.
// SIGINT and SIGTERM raise the stop flag. Failures before any grader starts
// are returned as *marking.StartupError.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, fmt.Errorf("config is required")
	}

	mode := cfg.Marking.Mode
	if opts.Mode != "" {
		mode = opts.Mode
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return Result{}, &marking.StartupError{Op: "prepare directories", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logCfg := *cfg
		if opts.LogLevel != "" {
			logCfg.Logging.Level = opts.LogLevel
		}
		var err error
		logger, err = logging.NewFromConfig(&logCfg)
		if err != nil {
			return Result{}, fmt.Errorf("init logger: %w", err)
		}
	}
	runLogger := logging.NewComponentLogger(logger, "markrun")

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	results := preflight.RunAll(cfg)
	for _, r := range results {
		if r.Passed {
			runLogger.Debug("preflight check passed", logging.String("check", r.Name), logging.String("detail", r.Detail))
			continue
		}
		runLogger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
		)
	}
	if err := preflight.Error(results); err != nil {
		return Result{}, &marking.StartupError{Op: "preflight", Err: err}
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, &marking.StartupError{Op: "acquire lock", Err: err}
	}
	if !ok {
		return Result{}, &marking.StartupError{Op: "acquire lock", Err: fmt.Errorf("%w (%s)", ErrAlreadyRunning, cfg.LockPath())}
	}
	defer lock.Unlock() //nolint:errcheck

	store := rubric.NewFileStore(cfg.RubricPath())
	source := exam.NewDirSource(cfg.Paths.DataDir)
	state, err := marking.Prepare(mode, store, source, cfg.Marking.FirstExamIndex)
	if err != nil {
		runLogger.Error("run cannot start", logging.Error(err))
		return Result{}, err
	}

	if mode == config.ModeUnsynchronized {
		logging.WarnWithContext(runLogger, "coordination guards disabled", "unsynchronized_mode",
			logging.String(logging.FieldImpact, "questions may be marked twice, rubric edits may be lost and the run may stall"),
			logging.String(logging.FieldErrorHint, "press Ctrl-C to stop a stalled run"),
		)
	}

	engineOpts := marking.OptionsFromConfig(cfg, opts.Workers)
	engineOpts.Seed = opts.Seed
	engineOpts.Logger = logger

	rec := openJournal(cfg, runLogger, mode, engineOpts, state)
	var runID string
	if rec != nil {
		runID = rec.runID
		engineOpts.Recorder = rec.recorder
		defer rec.store.Close()
	}

	engine := marking.NewEngine(state, store, source, engineOpts)
	summary, runErr := engine.Run(signalCtx)

	if rec != nil {
		rec.finish(summary, runErr, runLogger)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "run_summary"),
		logging.Int("workers", summary.Workers),
		logging.String("mode", string(summary.Mode)),
		logging.String("stop_reason", string(summary.StopReason)),
		logging.Int(logging.FieldItemIndex, summary.Final.Index),
		logging.String("rubric", summary.Rubric.String()),
		logging.Int("claims", summary.Claims),
		logging.Int("completions", summary.Completions),
		logging.Int("revisions", summary.Revisions),
		logging.Int("transitions", summary.Transitions),
		logging.Duration("elapsed", summary.Elapsed),
	}
	if runID != "" {
		attrs = append(attrs, logging.String(logging.FieldRunID, runID))
	}
	runLogger.Info("marking run finished", logging.Args(attrs...)...)

	return Result{Summary: summary, RunID: runID}, runErr
}

type journalRun struct {
	store    *journal.Store
	runID    string
	recorder *journal.Recorder
}

// openJournal starts a journaled run. A journal failure never blocks marking;
// it is logged and the run continues without history.
func openJournal(cfg *config.Config, logger *slog.Logger, mode config.Mode, opts marking.Options, state *marking.State) *journalRun {
	if !cfg.Journal.Enabled {
		return nil
	}
	store, err := journal.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run journal unavailable", "journal_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
		return nil
	}

	first := state.Item()
	workers := marking.NewPool(opts.Workers, opts.MinWorkers).Size()
	run, err := store.StartRun(context.Background(), journal.RunStart{
		Mode:         string(mode),
		Workers:      workers,
		FirstIndex:   first.Index,
		FirstItemID:  first.ID,
		RubricBefore: state.Rubric().String(),
	})
	if err != nil {
		_ = store.Close()
		logging.WarnWithContext(logger, "run journal unavailable", "journal_start_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
		return nil
	}
	logger.Info("journaling run", logging.String(logging.FieldRunID, run.ID), logging.String("path", store.Path()))
	return &journalRun{
		store:    store,
		runID:    run.ID,
		recorder: journal.NewRecorder(store, run.ID, logger),
	}
}

func (j *journalRun) finish(summary marking.Summary, runErr error, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), journalCloseTimeout)
	defer cancel()

	if err := j.recorder.Close(ctx); err != nil {
		logger.Warn("journal events incomplete", logging.String(logging.FieldRunID, j.runID), logging.Error(err))
	}

	result := journal.RunResult{
		StopReason:  string(summary.StopReason),
		FinalIndex:  summary.Final.Index,
		FinalItemID: summary.Final.ID,
		RubricAfter: summary.Rubric.String(),
		Claims:      summary.Claims,
		Completions: summary.Completions,
		Revisions:   summary.Revisions,
		Transitions: summary.Transitions,
	}
	if runErr != nil {
		result.ErrorMessage = runErr.Error()
	}
	if err := j.store.FinishRun(ctx, j.runID, result); err != nil {
		logging.WarnWithContext(logger, "failed to record run outcome", "journal_finish_failed",
			logging.String(logging.FieldRunID, j.runID),
			logging.Error(err),
		)
	}
}
