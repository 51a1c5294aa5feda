// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`
}

// EngineConfig locates the external conversion tools.
type EngineConfig struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	GraceSeconds int    `toml:"grace_seconds"`
}

// DefaultsConfig holds conversion defaults that flags may override.
type DefaultsConfig struct {
	Quality        string `toml:"quality"`
	Parallel       int    `toml:"parallel"`
	Recursive      bool   `toml:"recursive"`
	OutputDir      string `toml:"output_dir"`
	Overwrite      bool   `toml:"overwrite"`
	TimeoutMinutes int    `toml:"timeout_minutes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Grace is the SIGINT-to-kill window granted to a cancelled conversion.
func (e EngineConfig) Grace() time.Duration {
	return time.Duration(e.GraceSeconds) * time.Second
}

// Timeout is the per-file conversion cap, zero meaning none.
func (d DefaultsConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMinutes) * time.Minute
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.FFmpeg == "" {
		c.Engine.FFmpeg = "ffmpeg"
	}
	if c.Engine.FFprobe == "" {
		c.Engine.FFprobe = "ffprobe"
	}
	if c.Engine.GraceSeconds == 0 {
		c.Engine.GraceSeconds = 5
	}
	if c.Defaults.Quality == "" {
		c.Defaults.Quality = "medium"
	}
	if c.Defaults.Parallel == 0 {
		c.Defaults.Parallel = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// substituteEnvVars replaces ${VAR} references with environment values.
// Supported forms: ${VAR}, ${VAR:-default}, ${VAR:?message}. An empty
// value counts as unset for the :- and :? forms. Unresolvable plain or
// required references are left unchanged and reported in missing.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // strip ${ and }

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}

		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			missing = append(missing, fmt.Sprintf("%s: %s", name, msg))
			return match
		}

		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		missing = append(missing, expr)
		return match
	})

	return result, missing
}
