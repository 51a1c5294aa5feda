package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validQualities = map[string]bool{
	"low": true, "medium": true, "high": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validQualities[strings.ToLower(c.Defaults.Quality)] {
		errs = append(errs, fmt.Sprintf("defaults.quality: must be one of low, medium, high; got %q", c.Defaults.Quality))
	}
	if c.Defaults.Parallel < 1 {
		errs = append(errs, fmt.Sprintf("defaults.parallel: must be at least 1, got %d", c.Defaults.Parallel))
	}
	if c.Defaults.TimeoutMinutes < 0 {
		errs = append(errs, fmt.Sprintf("defaults.timeout_minutes: must not be negative, got %d", c.Defaults.TimeoutMinutes))
	}

	if c.Engine.FFmpeg == "" {
		errs = append(errs, "engine.ffmpeg: required")
	}
	if c.Engine.FFprobe == "" {
		errs = append(errs, "engine.ffprobe: required")
	}
	if c.Engine.GraceSeconds < 0 {
		errs = append(errs, fmt.Sprintf("engine.grace_seconds: must not be negative, got %d", c.Engine.GraceSeconds))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
