package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/config"
	"github.com/bnema/tabbridge/internal/infrastructure/host/memory"
	"github.com/bnema/tabbridge/internal/infrastructure/policy"
	"github.com/bnema/tabbridge/internal/logging"
)

const testFixture = `
windows:
  - bounds: {left: 0, top: 0, width: 640, height: 480}
    focused: true
    tabs:
      - {url: "https://example.com", title: Example, active: true}
  - bounds: {left: 100, top: 100, width: 800, height: 600}
    state: maximized
`

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(testFixture), 0o600))

	cfg := config.DefaultConfig()
	cfg.Host.Fixture = fixture
	cfg.Journal.Path = filepath.Join(dir, "journal.sqlite")
	return cfg
}

func TestNewBridge_SeedsFromFixture(t *testing.T) {
	ctx := testCtx()
	b, err := NewBridge(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	all, err := b.Windows.GetAll(ctx, entity.BackgroundCaller("ext", ""))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, entity.WindowStateMaximized, all[1].State)
	require.Len(t, all[0].Tabs, 1)
	assert.Equal(t, "https://example.com", all[0].Tabs[0].URL)
	assert.Equal(t, "default", all[0].SessionID)
}

func TestBridge_RunJournalsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()

	b, err := NewBridge(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NotNil(t, b.Journal)

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	created, err := b.Windows.Create(ctx, usecase.CreateWindowInput{
		Caller: entity.BackgroundCaller("ext", "chrome-extension://ext/"),
		Data:   entity.CreateWindowData{URL: entity.URLList{"popup.html"}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		entries, err := b.Journal.List(ctx, entity.JournalFilter{WindowID: created.ID})
		return err == nil && len(entries) > 0
	}, 2*time.Second, 20*time.Millisecond)

	entries, err := b.Journal.List(ctx, entity.JournalFilter{})
	require.NoError(t, err)
	names := map[entity.EventName]int{}
	for _, e := range entries {
		names[e.Name]++
	}
	assert.Equal(t, 3, names[entity.EventWindowCreated], "two seeded windows plus the created one")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBridge_RunStopsWhenHostCloses(t *testing.T) {
	ctx := testCtx()
	cfg := testConfig(t)
	cfg.Journal.Enabled = false

	host := memory.New()
	b, err := NewBridge(ctx, cfg, WithHost(host), WithPolicy(policy.Default{}))
	require.NoError(t, err)
	assert.Nil(t, b.Journal)
	assert.Empty(t, b.Store.WindowIDs(), "injected host skips the fixture")

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.NoError(t, host.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after host close")
	}
	assert.NoError(t, b.Close())
}

func TestNewBridge_BadFixture(t *testing.T) {
	cfg := testConfig(t)
	cfg.Host.Fixture = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewBridge(testCtx(), cfg)
	require.Error(t, err)
}

func TestBuildPolicy_Script(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.js")
	require.NoError(t, os.WriteFile(path, []byte(`function sessionId(w) { return "scripted"; }`), 0o600))

	p, err := BuildPolicy(testCtx(), config.PolicyConfig{Script: path, SessionID: "base"})
	require.NoError(t, err)
	_, ok := p.(*policy.Script)
	assert.True(t, ok)

	p, err = BuildPolicy(testCtx(), config.PolicyConfig{SessionID: "base", WindowType: "popup"})
	require.NoError(t, err)
	assert.Equal(t, policy.Default{Type: entity.WindowTypePopup, Session: "base"}, p)
}

func TestOpenHost_UnknownProvider(t *testing.T) {
	_, err := OpenHost(testCtx(), config.HostConfig{Provider: "wayland"})
	require.Error(t, err)
}

func TestStartupTimer(t *testing.T) {
	timer := NewStartupTimer()
	timer.Mark("a")
	timer.Mark("b")
	timer.Mark("a")
	assert.Equal(t, []string{"a", "b"}, timer.Phases())
	timer.Log(testCtx())
}
