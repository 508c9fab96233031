package bootstrap

import (
	"context"
	"fmt"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/infrastructure/config"
	"github.com/bnema/tabbridge/internal/infrastructure/host/memory"
	"github.com/bnema/tabbridge/internal/infrastructure/host/x11"
	"github.com/bnema/tabbridge/internal/infrastructure/policy"
	"github.com/bnema/tabbridge/internal/logging"
)

// OpenHost creates the configured window host.
func OpenHost(ctx context.Context, cfg config.HostConfig) (port.WindowHost, error) {
	log := logging.FromContext(ctx)

	switch cfg.Provider {
	case config.HostProviderX11:
		h, err := x11.New(ctx, cfg.Display)
		if err != nil {
			return nil, fmt.Errorf("open x11 host: %w", err)
		}
		return h, nil

	case config.HostProviderMemory, "":
		h := memory.New()
		if cfg.Fixture != "" {
			fixture, err := memory.LoadFixture(cfg.Fixture)
			if err != nil {
				_ = h.Close()
				return nil, err
			}
			seeded := fixture.Apply(h)
			log.Info().Str("fixture", cfg.Fixture).Int("windows", len(seeded)).Msg("memory host seeded")
		}
		return h, nil
	}
	return nil, fmt.Errorf("unknown host provider %q", cfg.Provider)
}

// BuildPolicy creates the window policy. A script, when configured, wraps
// the default policy and overrides only the hooks it defines.
func BuildPolicy(ctx context.Context, cfg config.PolicyConfig) (port.WindowPolicy, error) {
	base := policy.Default{
		Type:    cfg.DefaultWindowType(),
		Session: cfg.SessionID,
	}
	if cfg.Script == "" {
		return base, nil
	}
	script, err := policy.LoadScript(ctx, cfg.Script, base)
	if err != nil {
		return nil, fmt.Errorf("load policy script: %w", err)
	}
	logging.FromContext(ctx).Info().
		Str("script", cfg.Script).
		Strs("hooks", script.Defines()).
		Msg("policy script loaded")
	return script, nil
}
