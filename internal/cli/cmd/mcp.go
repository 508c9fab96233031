package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabbridge/internal/bootstrap"
	"github.com/bnema/tabbridge/internal/infrastructure/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the windows API as MCP tools over stdio",
	Long: `Run a bridge and expose windows.get, windows.create and the other
windows calls as Model Context Protocol tools on stdin/stdout.

Logs go to stderr so they never corrupt the protocol stream.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(a.Ctx(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bridge, err := bootstrap.NewBridge(ctx, a.Config)
	if err != nil {
		return err
	}
	defer func() { _ = bridge.Close() }()

	server := mcp.NewServer(bridge.Windows, a.BuildInfo.Version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bridge.Run(gctx)
	})
	g.Go(func() error {
		defer stop()
		return server.Run(gctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
