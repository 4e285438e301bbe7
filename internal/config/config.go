// Package config provides configuration types and helpers for logsmart.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application-wide configuration.
type Config struct {
	// Format is the log format name, see parser.Names.
	Format   string   `mapstructure:"format"`
	DiffTool string   `mapstructure:"difftool"`
	Keys     []string `mapstructure:"keys"`
	// Encoding of input files: "latin1" or "utf8".
	Encoding string `mapstructure:"encoding"`
	LogLevel string `mapstructure:"log_level"`
	// Output selects how reports are rendered: "text", "json" or "table".
	Output string `mapstructure:"output"`
	// Color is "auto", "always" or "never".
	Color string `mapstructure:"color"`
	// Workers bounds how many input files are processed at once.
	// Zero means one worker per file.
	Workers int    `mapstructure:"workers"`
	TempDir string `mapstructure:"tmpdir"`

	Redaction RedactionConfig `mapstructure:"redaction"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// RedactionConfig selects the content redaction rules.
type RedactionConfig struct {
	// Patterns lists the rules to apply, in any order.
	// Available: hex, mac, uuid, date, hash, phonenumber
	Patterns []string `mapstructure:"patterns"`
}

// WatchConfig configures re-export on input changes.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// DebounceDuration parses Debounce, falling back to 500ms when unset.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	if w.Debounce == "" {
		return 500 * time.Millisecond, nil
	}
	d, err := ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce: %w", err)
	}
	return d, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", "ulogcat")
	v.SetDefault("difftool", "meld")
	v.SetDefault("keys", []string{"tag", "threadname", "threadid", "level", "processname", "processid", "ALL"})
	v.SetDefault("encoding", "latin1")
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "text")
	v.SetDefault("color", "auto")
	v.SetDefault("workers", 0)
	v.SetDefault("tmpdir", "")
	v.SetDefault("watch.debounce", "500ms")
}

// Load decodes the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode configuration: %w", err)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("workers must not be negative")
	}
	return cfg, nil
}
