package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tabbridge/internal/cli/model"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/rpc"
)

// watchExtensionID identifies the monitor to the bridge.
const watchExtensionID = "tabbridge.watch"

var watchAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a running bridge live",
	Long: `Open a terminal view of a running bridge: the live window table and
the most recent lifecycle events from the event stream.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchAddr, "addr", "a", "", "bridge address (default server.listen_addr)")
}

func runWatch(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()

	addr := watchAddr
	if addr == "" {
		addr = a.Config.Server.ListenAddr
	}
	client := rpc.NewClient(addr, entity.BackgroundCaller(watchExtensionID, ""))

	events, err := client.Events(ctx)
	if err != nil {
		return fmt.Errorf("connect to bridge at %s: %w", addr, err)
	}

	m := model.NewWatchModel(ctx, a.Theme, model.WatchModelConfig{
		Lister: client,
		Events: events,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
