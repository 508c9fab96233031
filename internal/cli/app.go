// Package cli holds the shared state of tabbridge CLI commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/bnema/tabbridge/internal/cli/styles"
	"github.com/bnema/tabbridge/internal/domain/build"
	"github.com/bnema/tabbridge/internal/infrastructure/config"
	"github.com/bnema/tabbridge/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	ctx       context.Context
	logCloser io.Closer
}

// AppOptions controls how NewApp loads configuration and logging.
type AppOptions struct {
	// ConfigFile overrides the XDG config file location.
	ConfigFile string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// FileLog keeps the configured log file sink; short-lived commands
	// leave it off so they do not rotate the daemon's log.
	FileLog bool
}

// NewApp loads configuration and builds the logger.
func NewApp(opts AppOptions) (*App, error) {
	var managerOpts []config.Option
	if opts.ConfigFile != "" {
		managerOpts = append(managerOpts, config.WithConfigFile(opts.ConfigFile))
	}
	mgr, err := config.NewManager(managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logCfg := cfg.Logging.LoggerConfig()
	if opts.LogLevel != "" {
		logCfg.Level = logging.ParseLevel(opts.LogLevel)
	}
	if !opts.FileLog {
		logCfg.File.Enabled = false
	}
	logger, closer := logging.New(logCfg)
	zerolog.SetGlobalLevel(logCfg.Level)

	ctx := logging.WithContext(context.Background(), logger)
	logger.Debug().Str("config", mgr.GetConfigFile()).Msg("configuration loaded")

	return &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(),
		ctx:       ctx,
		logCloser: closer,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close flushes the log file sink.
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}
