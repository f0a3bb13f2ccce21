package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMode(); err != nil {
		return err
	}
	if err := c.validateMarking(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateMode() error {
	switch c.Marking.Mode {
	case ModeGuarded, ModeUnsynchronized:
		return nil
	default:
		return fmt.Errorf("marking.mode: unsupported value %q (want %q or %q)", c.Marking.Mode, ModeGuarded, ModeUnsynchronized)
	}
}

func (c *Config) validateMarking() error {
	m := c.Marking
	if m.MinWorkers < MinWorkersFloor {
		return fmt.Errorf("marking.min_workers must be at least %d", MinWorkersFloor)
	}
	if err := ensureNonNegativeMap(map[string]int{
		"marking.review_delay_min_ms": m.ReviewDelayMinMS,
		"marking.review_delay_max_ms": m.ReviewDelayMaxMS,
		"marking.mark_delay_min_ms":   m.MarkDelayMinMS,
		"marking.mark_delay_max_ms":   m.MarkDelayMaxMS,
		"marking.idle_backoff_ms":     m.IdleBackoffMS,
		"marking.first_exam_index":    m.FirstExamIndex,
	}); err != nil {
		return err
	}
	if m.ReviewDelayMaxMS < m.ReviewDelayMinMS {
		return errors.New("marking.review_delay_max_ms must not be less than marking.review_delay_min_ms")
	}
	if m.MarkDelayMaxMS < m.MarkDelayMinMS {
		return errors.New("marking.mark_delay_max_ms must not be less than marking.mark_delay_min_ms")
	}
	if m.ReviseProbability < 0 || m.ReviseProbability > 1 {
		return errors.New("marking.revise_probability must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	return nil
}
