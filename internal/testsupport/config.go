package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"markpool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Simulated work delays are zeroed so runs finish quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Marking.ReviewDelayMinMS = 0
	cfgVal.Marking.ReviewDelayMaxMS = 0
	cfgVal.Marking.MarkDelayMinMS = 0
	cfgVal.Marking.MarkDelayMaxMS = 0
	cfgVal.Marking.IdleBackoffMS = 1
	cfgVal.Logging.Level = "error"

	if err := os.MkdirAll(cfgVal.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode overrides the coordination mode on the test config.
func WithMode(mode config.Mode) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Marking.Mode = mode
	}
}

// WithReviseProbability sets how often graders revise rubric entries.
func WithReviseProbability(p float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Marking.ReviseProbability = p
	}
}

// WithJournal toggles the run journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
