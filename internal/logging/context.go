package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// enrich derives a child logger from the one in ctx and stores it back.
func enrich(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	return WithContext(ctx, fn(FromContext(ctx).With()).Logger())
}

// WithComponent tags log lines with the emitting component.
func WithComponent(ctx context.Context, component string) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("component", component) })
}

// WithWindowID tags log lines with a bridge window identity.
func WithWindowID(ctx context.Context, windowID int) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context { return c.Int("window_id", windowID) })
}

// WithTabID tags log lines with a bridge tab identity.
func WithTabID(ctx context.Context, tabID int) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context { return c.Int("tab_id", tabID) })
}

// WithExtensionID tags log lines with the calling extension.
func WithExtensionID(ctx context.Context, extensionID string) context.Context {
	if extensionID == "" {
		return ctx
	}
	return enrich(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("extension_id", extensionID) })
}
