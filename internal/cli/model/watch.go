// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabbridge/internal/cli/styles"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/rpc"
	"github.com/bnema/tabbridge/internal/logging"
)

const (
	defaultRecentEvents = 12
	tableChrome         = 10
)

// WindowLister lists the bridge's live windows.
type WindowLister interface {
	GetAll(ctx context.Context) ([]entity.WindowDetails, error)
}

// WatchModel is the Bubble Tea model for the live window monitor.
type WatchModel struct {
	// UI components
	help  help.Model
	keys  watchKeyMap
	table table.Model

	// State
	windows []entity.WindowDetails
	recent  []rpc.EventFrame
	closed  bool
	width   int
	height  int
	err     error

	// Config
	maxRecent int

	// Dependencies
	ctx    context.Context
	lister WindowLister
	events <-chan rpc.EventFrame
	theme  *styles.Theme
}

// watchKeyMap defines keybindings for the monitor.
type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refresh, k.Help, k.Quit},
	}
}

func defaultWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WatchModelConfig holds configuration for the watch model.
type WatchModelConfig struct {
	Lister       WindowLister
	Events       <-chan rpc.EventFrame
	RecentEvents int
}

// NewWatchModel creates a new live window monitor.
func NewWatchModel(ctx context.Context, theme *styles.Theme, cfg WatchModelConfig) WatchModel {
	maxRecent := cfg.RecentEvents
	if maxRecent <= 0 {
		maxRecent = defaultRecentEvents
	}
	const width, height = 80, 24
	return WatchModel{
		help:      help.New(),
		keys:      defaultWatchKeyMap(),
		table:     styles.NewStyledTable(theme, styles.WindowTableColumns(), nil, width, height-tableChrome-maxRecent/2),
		width:     width,
		height:    height,
		maxRecent: maxRecent,
		ctx:       ctx,
		lister:    cfg.Lister,
		events:    cfg.Events,
		theme:     theme,
	}
}

// windowsLoadedMsg is sent when the window list is fetched.
type windowsLoadedMsg struct {
	windows []entity.WindowDetails
	err     error
}

// eventMsg carries one frame from the event stream.
type eventMsg struct {
	frame rpc.EventFrame
}

// streamClosedMsg is sent when the event stream ends.
type streamClosedMsg struct{}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.loadWindows, m.waitForEvent)
}

func (m WatchModel) loadWindows() tea.Msg {
	if m.lister == nil {
		return windowsLoadedMsg{err: fmt.Errorf("bridge client not available")}
	}
	windows, err := m.lister.GetAll(m.ctx)
	if err != nil {
		logging.FromContext(m.ctx).Debug().Err(err).Msg("failed to list windows")
	}
	return windowsLoadedMsg{windows: windows, err: err}
}

func (m WatchModel) waitForEvent() tea.Msg {
	if m.events == nil {
		return streamClosedMsg{}
	}
	frame, ok := <-m.events
	if !ok {
		return streamClosedMsg{}
	}
	return eventMsg{frame: frame}
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(3, msg.Height-tableChrome-m.maxRecent/2))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case windowsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.windows = msg.windows
		rows := make([]table.Row, 0, len(m.windows))
		for _, w := range m.windows {
			rows = append(rows, styles.WindowRow(w))
		}
		m.table.SetRows(rows)
		return m, nil

	case eventMsg:
		m.recent = append(m.recent, msg.frame)
		if len(m.recent) > m.maxRecent {
			m.recent = m.recent[len(m.recent)-m.maxRecent:]
		}
		return m, tea.Batch(m.loadWindows, m.waitForEvent)

	case streamClosedMsg:
		m.closed = true
		return m, nil
	}

	return m, nil
}

func (m WatchModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadWindows

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m WatchModel) View() string {
	var b strings.Builder

	header := m.theme.Title.Render("tabbridge") + " " +
		m.theme.MutedBadge(fmt.Sprintf("%d windows", len(m.windows)))
	if m.closed {
		header += " " + m.theme.StatusBadge("stream closed", m.theme.Background, m.theme.Warning)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.theme.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Subtitle.Render("Recent events"))
	b.WriteString("\n")
	b.WriteString(m.renderRecent())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

func (m WatchModel) renderRecent() string {
	if len(m.recent) == 0 {
		return m.theme.Subtle.Render("  waiting for events...") + "\n"
	}
	var b strings.Builder
	for i := len(m.recent) - 1; i >= 0; i-- {
		f := m.recent[i]
		args := make([]string, 0, len(f.Args))
		for _, a := range f.Args {
			args = append(args, string(a))
		}
		line := fmt.Sprintf("  %s %s %s",
			m.theme.Subtle.Render(fmt.Sprintf("#%d", f.Seq)),
			m.theme.EventBadge(f.Name),
			truncate(strings.Join(args, " "), max(10, m.width-40)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
