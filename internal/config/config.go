package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Mode selects how the worker pool coordinates access to shared state.
type Mode string

const (
	// ModeGuarded serializes every shared-state mutation behind its guard.
	ModeGuarded Mode = "guarded"
	// ModeUnsynchronized runs the same worker loop with every guard disabled.
	ModeUnsynchronized Mode = "unsynchronized"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Marking contains worker pool pacing and coordination settings.
type Marking struct {
	Mode              Mode    `toml:"mode"`
	MinWorkers        int     `toml:"min_workers"`
	ReviewDelayMinMS  int     `toml:"review_delay_min_ms"`
	ReviewDelayMaxMS  int     `toml:"review_delay_max_ms"`
	MarkDelayMinMS    int     `toml:"mark_delay_min_ms"`
	MarkDelayMaxMS    int     `toml:"mark_delay_max_ms"`
	IdleBackoffMS     int     `toml:"idle_backoff_ms"`
	ReviseProbability float64 `toml:"revise_probability"`
	FirstExamIndex    int     `toml:"first_exam_index"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Journal controls the SQLite run journal.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for markpool.
//
// Configuration sections by subsystem:
//   - Paths: rubric/exam data directory and log directory
//   - Marking: coordination mode, worker floor, and simulated work timings
//   - Logging: log format and level
//   - Journal: run journal persistence
type Config struct {
	Paths   Paths   `toml:"paths"`
	Marking Marking `toml:"marking"`
	Logging Logging `toml:"logging"`
	Journal Journal `toml:"journal"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/markpool/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("markpool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory. The data directory is left
// alone: it must already hold the rubric and exam files.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// RubricPath returns the rubric record file inside the data directory.
func (c *Config) RubricPath() string {
	return filepath.Join(c.Paths.DataDir, "rubric.txt")
}

// JournalPath returns the SQLite run journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.LogDir, "journal.db")
}

// LockPath returns the single-run lock file guarding the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "markpool.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
