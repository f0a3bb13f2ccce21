package config

// MinWorkersFloor is the smallest grader pool a run may use.
const MinWorkersFloor = 2

const (
	defaultDataDir           = "~/.local/share/markpool/data"
	defaultLogDir            = "~/.local/share/markpool/logs"
	defaultMode              = ModeGuarded
	defaultMinWorkers        = MinWorkersFloor
	defaultReviewDelayMinMS  = 500
	defaultReviewDelayMaxMS  = 1000
	defaultMarkDelayMinMS    = 1000
	defaultMarkDelayMaxMS    = 2000
	defaultIdleBackoffMS     = 200
	defaultReviseProbability = 0.5
	defaultFirstExamIndex    = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultJournalEnabled    = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Marking: Marking{
			Mode:              defaultMode,
			MinWorkers:        defaultMinWorkers,
			ReviewDelayMinMS:  defaultReviewDelayMinMS,
			ReviewDelayMaxMS:  defaultReviewDelayMaxMS,
			MarkDelayMinMS:    defaultMarkDelayMinMS,
			MarkDelayMaxMS:    defaultMarkDelayMaxMS,
			IdleBackoffMS:     defaultIdleBackoffMS,
			ReviseProbability: defaultReviseProbability,
			FirstExamIndex:    defaultFirstExamIndex,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
	}
}
