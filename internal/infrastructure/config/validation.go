package config

import (
	"fmt"
	"net"
	"strings"
)

// validateConfig collects every invalid value into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateHost(config)...)
	validationErrors = append(validationErrors, validatePolicy(config)...)
	validationErrors = append(validationErrors, validateJournal(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	f := config.Logging.File
	if f.MaxSizeMB < 0 || f.MaxBackups < 0 || f.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.file size, backups and age must be non-negative")
	}
	return validationErrors
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Server.ListenAddr); err != nil {
		validationErrors = append(validationErrors,
			fmt.Sprintf("server.listen_addr must be host:port (got %q)", config.Server.ListenAddr))
	}
	if config.Server.EventBuffer < 1 {
		validationErrors = append(validationErrors, "server.event_buffer must be at least 1")
	}
	if config.Server.ReadHeaderTimeout < 0 {
		validationErrors = append(validationErrors, "server.read_header_timeout must be non-negative")
	}
	return validationErrors
}

func validateHost(config *Config) []string {
	switch config.Host.Provider {
	case HostProviderMemory, HostProviderX11:
		return nil
	default:
		return []string{fmt.Sprintf("host.provider must be memory or x11 (got %q)", config.Host.Provider)}
	}
}

func validatePolicy(config *Config) []string {
	switch config.Policy.WindowType {
	case "normal", "popup", "panel", "app", "devtools":
		return nil
	default:
		return []string{fmt.Sprintf("policy.window_type must be normal, popup, panel, app or devtools (got %q)", config.Policy.WindowType)}
	}
}

func validateJournal(config *Config) []string {
	if config.Journal.Retention < 0 {
		return []string{"journal.retention must be non-negative"}
	}
	return nil
}
