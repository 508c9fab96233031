package config

import (
	"os"
	"path/filepath"
)

const (
	appName     = "tabbridge"
	journalName = "journal.sqlite"
	lockName    = "tabbridge.lock"

	dirPerm  = 0o755
	filePerm = 0o644
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome  string
	DataHome    string
	StateHome   string
	RuntimeHome string
}

// GetXDGDirs returns the XDG Base Directory paths for tabbridge.
// ENV=dev keeps everything under ./.dev/tabbridge.
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{
			ConfigHome:  devDir,
			DataHome:    devDir,
			StateHome:   devDir,
			RuntimeHome: devDir,
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dirs := &XDGDirs{
		ConfigHome: filepath.Join(xdgOr("XDG_CONFIG_HOME", filepath.Join(homeDir, ".config")), appName),
		DataHome:   filepath.Join(xdgOr("XDG_DATA_HOME", filepath.Join(homeDir, ".local", "share")), appName),
		StateHome:  filepath.Join(xdgOr("XDG_STATE_HOME", filepath.Join(homeDir, ".local", "state")), appName),
	}
	// No XDG_RUNTIME_DIR (containers, ssh sessions): fall back to the state dir.
	dirs.RuntimeHome = dirs.StateHome
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		dirs.RuntimeHome = filepath.Join(runtime, appName)
	}
	return dirs, nil
}

func xdgOr(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// GetConfigDir returns the XDG config directory for tabbridge.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetConfigFile returns the path to the main configuration file.
func GetConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetJournalFile returns the default event journal database path.
func GetJournalFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.DataHome, journalName), nil
}

// GetLogFile returns the default rotated log file path.
func GetLogFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs", appName+".log"), nil
}

// GetLockFile returns the single-instance lock path used by serve.
func GetLockFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.RuntimeHome, lockName), nil
}
