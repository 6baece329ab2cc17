// Package config provides unified configuration loading for rigpreview.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all rigpreview configuration settings.
type Config struct {
	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Diff contains settings for change detection.
	Diff DiffConfig `json:"diff" yaml:"diff"`

	// Guard contains settings for the selection guard.
	Guard GuardConfig `json:"guard" yaml:"guard"`

	// Suppression configures which automation hooks a session disables.
	Suppression SuppressionConfig `json:"suppression" yaml:"suppression"`
}

// LoggingConfig configures rigpreview's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables session tracing to .rigpreview/session_trace.jsonl.
	// "trace" additionally includes per-property capture/diff decisions.
	Level string `json:"level" yaml:"level"`
}

// DiffConfig configures the change set builder.
type DiffConfig struct {
	// Tolerance is the absolute float comparison tolerance. Values whose
	// difference stays within it are treated as unchanged. Zero selects the
	// built-in default (1e-4).
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// GuardConfig configures the post-isolation selection guard.
type GuardConfig struct {
	// Ticks is how many host loop turns the engine re-asserts the intended
	// selection after isolation. External selection handlers can win a
	// same-turn race; the guard is a bounded mitigation, not a fix.
	Ticks int `json:"ticks" yaml:"ticks"`
}

// SuppressionConfig configures hook suppression for the session's duration.
type SuppressionConfig struct {
	// AllowPrefixes lists owner namespaces that are never suppressed:
	// the rig runtime itself and this engine's own hooks.
	AllowPrefixes []string `json:"allow_prefixes" yaml:"allow_prefixes"`

	// AutoBuildFragments are name fragments identifying the auto-build
	// automation family (toggled by the suppress_autobuild setting).
	AutoBuildFragments []string `json:"autobuild_fragments" yaml:"autobuild_fragments"`

	// ExporterFragments are name fragments identifying the exporter
	// automation family (toggled by the suppress_exporters setting).
	ExporterFragments []string `json:"exporter_fragments" yaml:"exporter_fragments"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Diff: DiffConfig{
			Tolerance: 1e-4,
		},
		Guard: GuardConfig{
			Ticks: 3,
		},
		Suppression: SuppressionConfig{
			AllowPrefixes:      []string{"com.rigtools.", "rig."},
			AutoBuildFragments: []string{"AutoBuild", "BuildPipeline"},
			ExporterFragments:  []string{"Exporter", "BatchExport"},
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> <root>/.rigpreview/config.yaml -> environment.
func Load(root string) (*Config, error) {
	config := Default()

	configPath := filepath.Join(root, ".rigpreview", "config.yaml")
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Diff.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %g", c.Diff.Tolerance)
	}

	if c.Guard.Ticks < 0 {
		return fmt.Errorf("guard ticks must be non-negative, got %d", c.Guard.Ticks)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("RIGPREVIEW_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("RIGPREVIEW_DIFF_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Diff.Tolerance = f
		}
	}

	if v := os.Getenv("RIGPREVIEW_GUARD_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Guard.Ticks = n
		}
	}
}
