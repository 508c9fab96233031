package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/cli/styles"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/persistence/sqlite"
)

var (
	journalLimit  int
	journalWindow int
	journalJSON   bool
	journalPrune  bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded lifecycle events",
	Long: `Show the most recent events recorded in the event journal, newest first.

Examples:
  tabbridge journal               # last 100 events
  tabbridge journal -n 20 -w 3    # last 20 events of window 3
  tabbridge journal --json        # one JSON object per line
  tabbridge journal --prune       # drop entries past the retention window`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", usecase.DefaultJournalLimit, "number of events to show")
	journalCmd.Flags().IntVarP(&journalWindow, "window", "w", 0, "only show events of this window id")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "print entries as JSON lines")
	journalCmd.Flags().BoolVar(&journalPrune, "prune", false, "delete entries older than journal.retention and exit")
}

// journalLine is the --json shape of an entry.
type journalLine struct {
	Seq        uint64          `json:"seq"`
	Name       string          `json:"name"`
	WindowID   int             `json:"windowId"`
	TabID      int             `json:"tabId"`
	Args       json.RawMessage `json:"args"`
	RecordedAt string          `json:"recordedAt"`
}

func runJournal(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()

	db, err := sqlite.NewConnection(ctx, a.Config.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = sqlite.Close(db) }()
	uc := usecase.NewRecordEventsUseCase(sqlite.NewEventJournalRepository(db))

	if journalPrune {
		n, err := uc.Prune(ctx, a.Config.Journal.Retention)
		if err != nil {
			return err
		}
		fmt.Println(a.Theme.SuccessStyle.Render(fmt.Sprintf("pruned %d entries", n)))
		return nil
	}

	entries, err := uc.List(ctx, entity.JournalFilter{
		WindowID: entity.WindowID(journalWindow),
		Limit:    journalLimit,
	})
	if err != nil {
		return err
	}

	if journalJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, e := range entries {
			line := journalLine{
				Seq:        e.Seq,
				Name:       string(e.Name),
				WindowID:   int(e.WindowID),
				TabID:      int(e.TabID),
				Args:       json.RawMessage(e.Payload),
				RecordedAt: e.RecordedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			}
			if err := enc.Encode(line); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Println(renderJournal(a.Theme, entries))
	return nil
}

func renderJournal(theme *styles.Theme, entries []*entity.JournalEntry) string {
	if len(entries) == 0 {
		return theme.Subtle.Render("No events recorded yet.")
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, styles.JournalRow(e))
	}
	columns := styles.JournalTableColumns()
	width := 0
	for _, c := range columns {
		width += c.Width + 2
	}
	t := styles.NewStyledTable(theme, columns, rows, width, len(rows)+1)
	t.Blur()

	header := theme.Title.Render("Event journal") + " " + theme.MutedBadge(fmt.Sprintf("%d events", len(entries)))
	return lipgloss.JoinVertical(lipgloss.Left, header, "", t.View())
}
