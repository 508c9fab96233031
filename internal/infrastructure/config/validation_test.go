package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "negative backups", mutate: func(c *Config) { c.Logging.File.MaxBackups = -1 }, wantErr: "logging.file"},
		{name: "listen addr", mutate: func(c *Config) { c.Server.ListenAddr = "nowhere" }, wantErr: "server.listen_addr"},
		{name: "event buffer", mutate: func(c *Config) { c.Server.EventBuffer = 0 }, wantErr: "server.event_buffer"},
		{name: "provider", mutate: func(c *Config) { c.Host.Provider = "quartz" }, wantErr: "host.provider"},
		{name: "window type", mutate: func(c *Config) { c.Policy.WindowType = "tooltip" }, wantErr: "policy.window_type"},
		{name: "retention", mutate: func(c *Config) { c.Journal.Retention = -time.Hour }, wantErr: "journal.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_CollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host.Provider = "quartz"
	cfg.Server.EventBuffer = 0

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.provider")
	assert.Contains(t, err.Error(), "server.event_buffer")
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"listen_addr"`)
	assert.Contains(t, string(data), `"x11"`)

	path, err := GenerateSchemaFile(t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
