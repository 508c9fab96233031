package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
	configFile string
	envFile    string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithConfigFile pins the configuration file instead of searching the XDG
// config dir and the working directory.
func WithConfigFile(path string) Option {
	return func(m *Manager) { m.configFile = path }
}

// WithEnvFile names the dotenv file loaded before the environment is read.
// Defaults to .env in the working directory; a missing file is ignored.
func WithEnvFile(path string) Option {
	return func(m *Manager) { m.envFile = path }
}

// NewManager creates a new configuration manager.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		viper:     viper.New(),
		callbacks: make([]func(*Config), 0),
		envFile:   ".env",
	}
	for _, opt := range opts {
		opt(m)
	}

	v := m.viper
	v.SetConfigType("toml")
	if m.configFile != "" {
		v.SetConfigFile(m.configFile)
	} else {
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// Every key is reachable as TABBRIDGE_<SECTION>_<KEY>.
	v.SetEnvPrefix("TABBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short forms shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "TABBRIDGE_LOG_LEVEL", "TABBRIDGE_LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TABBRIDGE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TABBRIDGE_LOG_FORMAT", "TABBRIDGE_LOGGING_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TABBRIDGE_LOG_FORMAT: %w", err)
	}

	return m, nil
}

// Load reads the dotenv file, the config file and the environment, then
// validates the result. A missing config file is created with defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadEnvFile(); err != nil {
		return err
	}

	setDefaults(m.viper)

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) loadEnvFile() error {
	if m.envFile == "" {
		return nil
	}
	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(m.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", m.envFile, err)
	}
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.configFile
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	path, createErr := m.createDefaultConfig()
	if createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			path,
			createErr,
		)
	}
	m.viper.SetConfigFile(path)
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := fillPaths(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func fillPaths(config *Config) error {
	if config.Journal.Path == "" {
		path, err := GetJournalFile()
		if err != nil {
			return fmt.Errorf("failed to get journal path: %w", err)
		}
		config.Journal.Path = path
	}
	if config.Logging.File.Enabled && config.Logging.File.Path == "" {
		path, err := GetLogFile()
		if err != nil {
			return fmt.Errorf("failed to get log file path: %w", err)
		}
		config.Logging.File.Path = path
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	config.Host.Provider = HostProvider(strings.ToLower(strings.TrimSpace(string(config.Host.Provider))))
	if config.Host.Provider == "" {
		config.Host.Provider = HostProviderMemory
	}
	config.Policy.WindowType = strings.ToLower(strings.TrimSpace(config.Policy.WindowType))
	if config.Policy.WindowType == "" {
		config.Policy.WindowType = "normal"
	}
	if strings.TrimSpace(config.Policy.SessionID) == "" {
		config.Policy.SessionID = defaultSessionID
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes the registered defaults as TOML and returns the path.
func (m *Manager) createDefaultConfig() (string, error) {
	configFile := m.configFile
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return configFile, err
	}
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return configFile, fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}
