// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and BMI_ environment variables.
// - Validation failures wrap ErrInvalidConfig.
package config

import "path/filepath"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3003".
	Addr string `koanf:"addr"`

	// DataPath points at the athlete events CSV loaded at startup.
	DataPath string `koanf:"data_path"`

	// Delimiter separates CSV fields. Must be a single character.
	Delimiter string `koanf:"delimiter"`

	// SelectionLimit caps the number of bars returned per chart selection.
	SelectionLimit int `koanf:"selection_limit"`

	// MetricsIntervalMS sets how often system metrics are sampled.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the HTTP latency histogram buckets, in
	// milliseconds. Empty keeps the Prometheus defaults.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":3003",
		DataPath:          "dados/athlete_events.csv",
		Delimiter:         ",",
		SelectionLimit:    10,
		MetricsIntervalMS: 10_000,
		MetricsNamespace:  "athletebmi",
		MetricsSubsystem:  "dashboard",
	}
}

// DelimiterRune returns the configured delimiter as a rune. Load guarantees
// it holds exactly one character.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// DatasetName is the data file name, exported as the dataset metric label.
func (c *Config) DatasetName() string {
	return filepath.Base(c.DataPath)
}
