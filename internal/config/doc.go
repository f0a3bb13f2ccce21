// Package config loads, normalizes, and validates markpool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MARKPOOL_DATA_DIR. The Config type centralizes every knob the coordinator
// and CLI need: where the rubric and exam files live, how the worker pool
// paces itself, and how logs and the run journal are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
