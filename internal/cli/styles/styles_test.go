package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", RelativeTime(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", RelativeTime(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3h ago", RelativeTime(now.Add(-3*time.Hour-time.Second)))
	assert.Equal(t, "2d ago", RelativeTime(now.Add(-49*time.Hour)))

	old := time.Date(2020, time.March, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 4", RelativeTime(old))
}

func TestWindowRow(t *testing.T) {
	row := WindowRow(entity.WindowDetails{
		ID:      3,
		Focused: true,
		Left:    10, Top: 20, Width: 800, Height: 600,
		Tabs:  []entity.TabDetails{{}, {}},
		Type:  entity.WindowTypeNormal,
		State: entity.WindowStateMaximized,
	})
	assert.Equal(t, []string{"3", "maximized", "*", "800x600+10+20", "2", "normal"}, []string(row))
}

func TestJournalRow(t *testing.T) {
	row := JournalRow(&entity.JournalEntry{
		Seq:        42,
		Name:       entity.EventWindowRemoved,
		WindowID:   7,
		TabID:      entity.TabIDNone,
		RecordedAt: time.Now(),
	})
	assert.Equal(t, []string{"42", "windows.onRemoved", "7", "-", "just now"}, []string(row))
}

func TestBadgesRenderText(t *testing.T) {
	theme := NewTheme()
	assert.Contains(t, theme.StateBadge(entity.WindowStateFullscreen), "fullscreen")
	assert.Contains(t, theme.StateBadge(""), "normal")
	assert.Contains(t, theme.EventBadge(entity.EventTabCreated), "tabs.onCreated")
}

func TestThemeStateColors(t *testing.T) {
	theme := NewThemeFromPalette(DefaultDarkPalette())

	c, ok := theme.stateColor(entity.WindowStateFullscreen)
	assert.True(t, ok)
	assert.Equal(t, theme.Warning, c)

	_, ok = theme.stateColor(entity.WindowStateMinimized)
	assert.False(t, ok, "minimized renders muted")
}
