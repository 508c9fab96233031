package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/tabbridge/internal/cli/styles"
	"github.com/bnema/tabbridge/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(renderVersion(styles.NewTheme(), buildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func renderVersion(theme *styles.Theme, info build.Info) string {
	row := func(label, value string) string {
		return theme.Subtle.Render(fmt.Sprintf("%-8s", label)) + " " + theme.Normal.Render(value)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("tabbridge")+" "+theme.AccentBadge(info.Version),
		row("commit", info.Commit),
		row("built", info.BuildDate),
		row("go", info.GoVersion),
		row("source", build.RepoURL()),
	)
}
