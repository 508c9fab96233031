package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/host/memory"
	"github.com/bnema/tabbridge/internal/infrastructure/policy"
	"github.com/bnema/tabbridge/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func contentScript(window entity.WindowID) entity.Caller {
	return entity.Caller{
		ExtensionID:  "abc",
		ExtensionURL: "chrome-extension://abc/",
		Kind:         entity.CallerContentScript,
		WindowID:     window,
		TabID:        7,
	}
}

func TestDefault_ResolveCurrentWindow(t *testing.T) {
	ctx := testContext()
	p := policy.Default{}

	_, ok := p.ResolveCurrentWindow(ctx, entity.BackgroundCaller("abc", ""), 3)
	assert.False(t, ok, "background callers have no current window")

	id, ok := p.ResolveCurrentWindow(ctx, contentScript(5), 3)
	require.True(t, ok)
	assert.Equal(t, entity.WindowID(5), id)

	_, ok = p.ResolveCurrentWindow(ctx, contentScript(entity.WindowIDNone), 3)
	assert.False(t, ok)
}

func TestDefault_Fields(t *testing.T) {
	w := memory.New().Seed(memory.WindowSpec{})

	assert.Equal(t, entity.WindowTypeNormal, policy.Default{}.WindowType(w))
	assert.Equal(t, entity.DefaultSessionID, policy.Default{}.SessionID(w))

	custom := policy.Default{Type: entity.WindowTypePopup, Session: "work"}
	assert.Equal(t, entity.WindowTypePopup, custom.WindowType(w))
	assert.Equal(t, "work", custom.SessionID(w))

	id, ok := custom.ResolveWindowByID(testContext(), contentScript(1), 9)
	assert.False(t, ok)
	assert.Equal(t, entity.WindowID(9), id)
}

const testScript = `
function resolveCurrentWindow(caller, lastFocused) {
  if (caller.kind === "background") return lastFocused > 0 ? lastFocused : null;
  return caller.windowId;
}
function windowType(w) { return w.width < 400 ? "popup" : "normal"; }
function sessionId(w) { return w.incognito ? "private" : ""; }
function assignTabDetails(tab) { return { favIconUrl: tab.url + "/favicon.ico", pinned: tab.index === 0 }; }
`

func TestScript_Hooks(t *testing.T) {
	ctx := testContext()
	s, err := policy.NewScript(ctx, "test.js", testScript, policy.Default{})
	require.NoError(t, err)
	assert.Equal(t, []string{"assignTabDetails", "resolveCurrentWindow", "sessionId", "windowType"}, s.Defines())

	id, ok := s.ResolveCurrentWindow(ctx, entity.BackgroundCaller("abc", ""), 4)
	require.True(t, ok)
	assert.Equal(t, entity.WindowID(4), id)

	_, ok = s.ResolveCurrentWindow(ctx, entity.BackgroundCaller("abc", ""), entity.WindowIDNone)
	assert.False(t, ok)

	h := memory.New()
	small := h.Seed(memory.WindowSpec{Bounds: entity.Bounds{Width: 300, Height: 300}, Incognito: true})
	large := h.Seed(memory.WindowSpec{Bounds: entity.Bounds{Width: 1000, Height: 800}})
	assert.Equal(t, entity.WindowTypePopup, s.WindowType(small))
	assert.Equal(t, entity.WindowTypeNormal, s.WindowType(large))
	assert.Equal(t, "private", s.SessionID(small))
	assert.Equal(t, entity.DefaultSessionID, s.SessionID(large))

	tab, err := h.AddTab(large, "https://example.com", "Example")
	require.NoError(t, err)
	d := entity.TabDetails{ID: 2, WindowID: 1, Index: 0, URL: "https://example.com"}
	s.AssignTabDetails(&d, tab)
	assert.Equal(t, "https://example.com/favicon.ico", d.Extra["favIconUrl"])
	assert.Equal(t, true, d.Extra["pinned"])
}

func TestScript_MissingHooksFallBack(t *testing.T) {
	ctx := testContext()
	s, err := policy.NewScript(ctx, "empty.js", `var unrelated = 1;`, policy.Default{Session: "fallback"})
	require.NoError(t, err)
	assert.Empty(t, s.Defines())

	w := memory.New().Seed(memory.WindowSpec{})
	assert.Equal(t, "fallback", s.SessionID(w))
	assert.Equal(t, entity.WindowTypeNormal, s.WindowType(w))

	id, ok := s.ResolveCurrentWindow(ctx, contentScript(3), 1)
	require.True(t, ok)
	assert.Equal(t, entity.WindowID(3), id)
}

func TestScript_ThrowingHookFallsBack(t *testing.T) {
	ctx := testContext()
	s, err := policy.NewScript(ctx, "throw.js", `function windowType() { throw new Error("boom"); }
function sessionId() { return 42; }`, policy.Default{})
	require.NoError(t, err)

	w := memory.New().Seed(memory.WindowSpec{})
	assert.Equal(t, entity.WindowTypeNormal, s.WindowType(w))
	assert.Equal(t, "42", s.SessionID(w))
}

func TestScript_UnknownTypeFallsBack(t *testing.T) {
	s, err := policy.NewScript(testContext(), "type.js", `function windowType() { return "floating"; }`, policy.Default{})
	require.NoError(t, err)
	assert.Equal(t, entity.WindowTypeNormal, s.WindowType(memory.New().Seed(memory.WindowSpec{})))
}

func TestScript_SyntaxError(t *testing.T) {
	_, err := policy.NewScript(testContext(), "bad.js", `function (`, policy.Default{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile policy script")
}
