package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabbridge/internal/bootstrap"
	"github.com/bnema/tabbridge/internal/infrastructure/config"
	"github.com/bnema/tabbridge/internal/infrastructure/rpc"
	"github.com/bnema/tabbridge/internal/logging"
)

const shutdownTimeout = 5 * time.Second

var (
	serveListen  string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge",
	Long: `Run the bridge: observe the configured window host and serve the
windows API over HTTP with a WebSocket event stream.

Only one bridge may run per user; a second instance exits with an error.
The config file is watched and policy changes apply without a restart.

Examples:
  tabbridge serve                          # listen on the configured address
  tabbridge serve --listen 127.0.0.1:9000  # override the listen address`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides server.listen_addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload the config file on change")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	cfg := a.Config
	ctx, stop := signal.NotifyContext(a.Ctx(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	lockPath, err := config.GetLockFile()
	if err != nil {
		return err
	}
	lock, err := bootstrap.AcquireInstanceLock(lockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	bridge, err := bootstrap.NewBridge(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = bridge.Close() }()

	if !serveNoWatch {
		watchConfig(ctx, a.Manager, bridge)
	}

	addr := cfg.Server.ListenAddr
	if serveListen != "" {
		addr = serveListen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           rpc.NewServer(ctx, bridge.Windows, bridge.Bus),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := bridge.Run(gctx); err != nil {
			return err
		}
		if gctx.Err() == nil {
			return errors.New("window host closed")
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("version", a.BuildInfo.Version).Msg("serving windows API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info().Msg("bridge stopped")
	return err
}

// watchConfig hot-swaps the window policy and log level when the config
// file changes. A policy that fails to load keeps the previous one.
func watchConfig(ctx context.Context, mgr *config.Manager, bridge *bootstrap.Bridge) {
	log := logging.FromContext(ctx)
	mgr.OnConfigChange(func(next *config.Config) {
		zerolog.SetGlobalLevel(logging.ParseLevel(next.Logging.Level))
		p, err := bootstrap.BuildPolicy(ctx, next.Policy)
		if err != nil {
			log.Error().Err(err).Msg("policy reload failed, keeping current policy")
			return
		}
		bridge.SetPolicy(p)
		log.Info().Msg("policy reloaded")
	})
	if err := mgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
}
