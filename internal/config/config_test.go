package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"markpool/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "markpool", "data")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Marking.Mode != config.ModeGuarded {
		t.Fatalf("expected guarded mode by default, got %q", cfg.Marking.Mode)
	}
	if cfg.Marking.MinWorkers != 2 {
		t.Fatalf("expected worker floor 2, got %d", cfg.Marking.MinWorkers)
	}
	if cfg.Marking.ReviseProbability != 0.5 {
		t.Fatalf("unexpected revise probability: %v", cfg.Marking.ReviseProbability)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.LogDir); err != nil || !info.IsDir() {
		t.Fatalf("expected log dir %q to exist: %v", cfg.Paths.LogDir, err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "markpool.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
			LogDir  string `toml:"log_dir"`
		} `toml:"paths"`
		Marking struct {
			Mode          string `toml:"mode"`
			IdleBackoffMS int    `toml:"idle_backoff_ms"`
		} `toml:"marking"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Paths.LogDir = filepath.Join(tempDir, "logs")
	custom.Marking.Mode = "Unsync"
	custom.Marking.IdleBackoffMS = 5

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Marking.Mode != config.ModeUnsynchronized {
		t.Fatalf("expected unsynchronized mode, got %q", cfg.Marking.Mode)
	}
	if cfg.Marking.IdleBackoffMS != 5 {
		t.Fatalf("expected idle backoff 5, got %d", cfg.Marking.IdleBackoffMS)
	}
	if cfg.Marking.MarkDelayMaxMS != config.Default().Marking.MarkDelayMaxMS {
		t.Fatalf("expected unspecified fields to keep defaults, got %d", cfg.Marking.MarkDelayMaxMS)
	}
	if cfg.RubricPath() != filepath.Join(tempDir, "data", "rubric.txt") {
		t.Fatalf("unexpected rubric path: %q", cfg.RubricPath())
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	override := t.TempDir()
	t.Setenv("MARKPOOL_DATA_DIR", override)
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.DataDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"mode", func(c *config.Config) { c.Marking.Mode = "optimistic" }, "marking.mode"},
		{"probability", func(c *config.Config) { c.Marking.ReviseProbability = 1.5 }, "revise_probability"},
		{"review range", func(c *config.Config) { c.Marking.ReviewDelayMaxMS = 1 }, "review_delay_max_ms"},
		{"negative", func(c *config.Config) { c.Marking.IdleBackoffMS = -1 }, "idle_backoff_ms"},
		{"floor", func(c *config.Config) { c.Marking.MinWorkers = 0 }, "min_workers"},
		{"single grader", func(c *config.Config) { c.Marking.MinWorkers = 1 }, "min_workers"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DataDir = t.TempDir()
			cfg.Paths.LogDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := config.ParseMode(" Guarded ")
	if err != nil || mode != config.ModeGuarded {
		t.Fatalf("ParseMode guarded: %q %v", mode, err)
	}
	mode, err = config.ParseMode("none")
	if err != nil || mode != config.ModeUnsynchronized {
		t.Fatalf("ParseMode none: %q %v", mode, err)
	}
	if _, err := config.ParseMode("locked"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Marking.IdleBackoffMS != 200 {
		t.Fatalf("unexpected idle backoff from sample: %d", cfg.Marking.IdleBackoffMS)
	}
}
