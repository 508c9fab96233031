package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default configuration constants
const (
	defaultListenAddr        = "127.0.0.1:8765"
	defaultEventBuffer       = 256
	defaultReadHeaderTimeout = 5 * time.Second

	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7

	defaultJournalRetention = 7 * 24 * time.Hour

	defaultSessionID = "default"
)

// DefaultConfig returns the default configuration.
// Paths left empty are filled from XDG directories on load.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			TimeFormat: time.RFC3339,
			File: LogFileConfig{
				MaxSizeMB:  defaultLogMaxSizeMB,
				MaxBackups: defaultLogMaxBackups,
				MaxAgeDays: defaultLogMaxAgeDays,
			},
		},
		Server: ServerConfig{
			ListenAddr:        defaultListenAddr,
			EventBuffer:       defaultEventBuffer,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
		Host: HostConfig{
			Provider: HostProviderMemory,
		},
		Policy: PolicyConfig{
			WindowType: "normal",
			SessionID:  defaultSessionID,
		},
		Journal: JournalConfig{
			Enabled:   true,
			Retention: defaultJournalRetention,
		},
	}
}

// setDefaults registers every key with viper so env overrides apply even
// when the file omits a section.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
	v.SetDefault("logging.file.enabled", d.Logging.File.Enabled)
	v.SetDefault("logging.file.path", d.Logging.File.Path)
	v.SetDefault("logging.file.max_size_mb", d.Logging.File.MaxSizeMB)
	v.SetDefault("logging.file.max_backups", d.Logging.File.MaxBackups)
	v.SetDefault("logging.file.max_age_days", d.Logging.File.MaxAgeDays)
	v.SetDefault("logging.file.compress", d.Logging.File.Compress)

	v.SetDefault("server.listen_addr", d.Server.ListenAddr)
	v.SetDefault("server.event_buffer", d.Server.EventBuffer)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout.String())

	v.SetDefault("host.provider", string(d.Host.Provider))
	v.SetDefault("host.fixture", d.Host.Fixture)
	v.SetDefault("host.display", d.Host.Display)

	v.SetDefault("policy.window_type", d.Policy.WindowType)
	v.SetDefault("policy.session_id", d.Policy.SessionID)
	v.SetDefault("policy.script", d.Policy.Script)

	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.path", d.Journal.Path)
	v.SetDefault("journal.retention", d.Journal.Retention.String())
}
