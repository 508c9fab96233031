package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// AccentBadge renders a badge with accent color.
func (t *Theme) AccentBadge(text string) string {
	return t.Badge.Render(text)
}

// StatusBadge renders a status badge with custom colors.
func (t *Theme) StatusBadge(text string, fg, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1)
	return style.Render(text)
}

// StateBadge renders a window state. An empty state renders as normal.
func (t *Theme) StateBadge(state entity.WindowState) string {
	if state == "" {
		state = entity.WindowStateNormal
	}
	if bg, ok := t.stateColor(state); ok {
		return t.StatusBadge(string(state), t.Background, bg)
	}
	return t.MutedBadge(string(state))
}

// EventBadge renders an event name, colored by whether it adds, removes
// or changes something.
func (t *Theme) EventBadge(name entity.EventName) string {
	switch {
	case strings.HasSuffix(string(name), "onCreated"):
		return t.StatusBadge(string(name), t.Background, t.Success)
	case strings.HasSuffix(string(name), "onRemoved"):
		return t.StatusBadge(string(name), t.Background, t.Error)
	default:
		return t.MutedBadge(string(name))
	}
}

// TimeBadge renders a relative time badge.
func (t *Theme) TimeBadge(tm time.Time) string {
	return t.BadgeMuted.Render(RelativeTime(tm))
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	diff := time.Since(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return tm.Format("Jan 2")
	}
}

// FormatBounds renders window geometry as WxH+X+Y.
func FormatBounds(d entity.WindowDetails) string {
	return fmt.Sprintf("%dx%d+%d+%d", d.Width, d.Height, d.Left, d.Top)
}
