package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// WindowTableColumns returns columns for the live window table.
func WindowTableColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "State", Width: 11},
		{Title: "Focus", Width: 6},
		{Title: "Geometry", Width: 20},
		{Title: "Tabs", Width: 5},
		{Title: "Type", Width: 8},
	}
}

// WindowRow converts window details to a table row.
func WindowRow(d entity.WindowDetails) table.Row {
	focus := ""
	if d.Focused {
		focus = "*"
	}
	return table.Row{
		d.ID.String(),
		string(d.State),
		focus,
		FormatBounds(d),
		strconv.Itoa(len(d.Tabs)),
		string(d.Type),
	}
}

// JournalTableColumns returns columns for the journal listing.
func JournalTableColumns() []table.Column {
	return []table.Column{
		{Title: "Seq", Width: 8},
		{Title: "Event", Width: 26},
		{Title: "Window", Width: 8},
		{Title: "Tab", Width: 6},
		{Title: "Recorded", Width: 12},
	}
}

// JournalRow converts a journal entry to a table row.
func JournalRow(e *entity.JournalEntry) table.Row {
	return table.Row{
		strconv.FormatUint(e.Seq, 10),
		string(e.Name),
		optionalID(int(e.WindowID)),
		optionalID(int(e.TabID)),
		RelativeTime(e.RecordedAt),
	}
}

func optionalID(id int) string {
	if id <= 0 {
		return "-"
	}
	return strconv.Itoa(id)
}
