// Package config loads and watches the bridge configuration.
package config

import (
	"time"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

// Config represents the complete configuration for tabbridge.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
	// Server controls the RPC listener and the event stream.
	Server  ServerConfig  `mapstructure:"server" toml:"server" json:"server"`
	Host    HostConfig    `mapstructure:"host" toml:"host" json:"host"`
	Policy  PolicyConfig  `mapstructure:"policy" toml:"policy" json:"policy"`
	Journal JournalConfig `mapstructure:"journal" toml:"journal" json:"journal"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level      string        `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format     string        `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	TimeFormat string        `mapstructure:"time_format" toml:"time_format" json:"time_format"`
	File       LogFileConfig `mapstructure:"file" toml:"file" json:"file"`
}

// LogFileConfig enables a rotated log file next to stderr output.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path       string `mapstructure:"path" toml:"path" json:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=0"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days" jsonschema:"minimum=0"`
	Compress   bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr" toml:"listen_addr" json:"listen_addr"`
	// EventBuffer is the per-subscriber queue depth of the event stream.
	EventBuffer       int           `mapstructure:"event_buffer" toml:"event_buffer" json:"event_buffer" jsonschema:"minimum=1"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" toml:"read_header_timeout" json:"read_header_timeout"`
}

// HostProvider selects the window host implementation.
type HostProvider string

const (
	HostProviderMemory HostProvider = "memory"
	HostProviderX11    HostProvider = "x11"
)

// HostConfig selects and configures the window host.
type HostConfig struct {
	Provider HostProvider `mapstructure:"provider" toml:"provider" json:"provider" jsonschema:"enum=memory,enum=x11"`
	// Fixture seeds the memory host from a YAML file.
	Fixture string `mapstructure:"fixture" toml:"fixture" json:"fixture"`
	// Display overrides $DISPLAY for the x11 host.
	Display string `mapstructure:"display" toml:"display" json:"display"`
}

// PolicyConfig configures the window policy.
type PolicyConfig struct {
	WindowType string `mapstructure:"window_type" toml:"window_type" json:"window_type" jsonschema:"enum=normal,enum=popup,enum=panel,enum=app,enum=devtools"`
	SessionID  string `mapstructure:"session_id" toml:"session_id" json:"session_id"`
	// Script is a JavaScript file overriding policy hooks.
	Script string `mapstructure:"script" toml:"script" json:"script"`
}

// JournalConfig controls the SQLite event journal.
type JournalConfig struct {
	Enabled   bool          `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path      string        `mapstructure:"path" toml:"path" json:"path"`
	Retention time.Duration `mapstructure:"retention" toml:"retention" json:"retention"`
}

// LoggerConfig converts the logging section for logging.New.
func (c LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      logging.ParseLevel(c.Level),
		Format:     c.Format,
		TimeFormat: c.TimeFormat,
		File: logging.FileConfig{
			Enabled:    c.File.Enabled,
			Path:       c.File.Path,
			MaxSizeMB:  c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAgeDays: c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		},
	}
}

// DefaultWindowType returns the configured window type for the default policy.
func (c PolicyConfig) DefaultWindowType() entity.WindowType {
	t := entity.WindowType(c.WindowType)
	if !t.Valid() {
		return entity.WindowTypeNormal
	}
	return t
}
