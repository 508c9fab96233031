package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("ENV", "")
	return dir
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, "127.0.0.1:8765", v.GetString("server.listen_addr"))
	assert.Equal(t, "memory", v.GetString("host.provider"))
	assert.True(t, v.GetBool("journal.enabled"))
	assert.Equal(t, 7*24*time.Hour, v.GetDuration("journal.retention"))
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom", "config.toml")

	m, err := NewManager(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	_, err = os.Stat(path)
	require.NoError(t, err, "default config written")

	cfg := m.Get()
	assert.Equal(t, HostProviderMemory, cfg.Host.Provider)
	assert.Equal(t, 256, cfg.Server.EventBuffer)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, filepath.Join(dir, "data", "tabbridge", "journal.sqlite"), cfg.Journal.Path)
	assert.Equal(t, path, m.GetConfigFile())
}

func TestManager_LoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
listen_addr = "127.0.0.1:9999"

[host]
provider = "X11"

[policy]
window_type = "popup"
session_id = "work"

[journal]
retention = "24h"
`), 0o600))
	t.Setenv("TABBRIDGE_LOG_LEVEL", "DEBUG")
	t.Setenv("TABBRIDGE_SERVER_EVENT_BUFFER", "32")

	m, err := NewManager(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.ListenAddr)
	assert.Equal(t, 32, cfg.Server.EventBuffer)
	assert.Equal(t, HostProviderX11, cfg.Host.Provider)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "work", cfg.Policy.SessionID)
	assert.Equal(t, 24*time.Hour, cfg.Journal.Retention)
	assert.Equal(t, "popup", string(cfg.Policy.DefaultWindowType()))
}

func TestManager_LoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TABBRIDGE_POLICY_SESSION_ID=from-dotenv\n"), 0o600))
	t.Setenv("TABBRIDGE_POLICY_SESSION_ID", "")
	require.NoError(t, os.Unsetenv("TABBRIDGE_POLICY_SESSION_ID"))

	m, err := NewManager(WithConfigFile(filepath.Join(dir, "config.toml")), WithEnvFile(envFile))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	assert.Equal(t, "from-dotenv", m.Get().Policy.SessionID)
}

func TestManager_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[host]
provider = "wayland"
`), 0o600))

	m, err := NewManager(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)
	err = m.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.provider")
}

func TestManager_ReloadNotifiesCallbacks(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[policy]\nsession_id = \"a\"\n"), 0o600))

	m, err := NewManager(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	var seen []string
	m.OnConfigChange(func(c *Config) { seen = append(seen, c.Policy.SessionID) })

	require.NoError(t, os.WriteFile(path, []byte("[policy]\nsession_id = \"b\"\n"), 0o600))
	require.NoError(t, m.Reload())

	assert.Equal(t, []string{"b"}, seen)
	assert.Equal(t, "b", m.Get().Policy.SessionID)
}

func TestManager_GetBeforeLoad(t *testing.T) {
	m := &Manager{viper: viper.New()}
	assert.Equal(t, DefaultConfig(), m.Get())
}
