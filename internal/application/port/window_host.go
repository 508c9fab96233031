package port

import (
	"context"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// HostWindow is a live window owned by the windowing host.
// The bridge never mutates it directly; all changes go through WindowHost.
type HostWindow interface {
	// Handle is a host-unique key, stable for the object's lifetime.
	Handle() uint64
	Bounds() entity.Bounds
	Flags() entity.WindowFlags
	IsFocused() bool
	IsFullScreenable() bool
	IsAlwaysOnTop() bool
	IsIncognito() bool
	IsDestroyed() bool
	// Tabs returns the window's tabs in display order.
	Tabs() []HostTab
}

// HostTab is a live tab owned by the windowing host.
type HostTab interface {
	Handle() uint64
	Info() entity.TabInfo
	IsDestroyed() bool
}

// CreateWindowOptions carries resolved windows.create data to the host.
type CreateWindowOptions struct {
	URL       string
	Left      *int
	Top       *int
	Width     *int
	Height    *int
	Focused   *bool
	Incognito bool
	Type      entity.WindowType
	State     entity.WindowState
}

// WindowHost is the external windowing provider.
//
// Operations return once the host has applied them. Lifecycle notifications
// for the same transitions are delivered on Events in the order the host
// raised them.
type WindowHost interface {
	// Windows lists the windows that exist when the bridge starts.
	Windows(ctx context.Context) ([]HostWindow, error)

	CreateWindow(ctx context.Context, opts CreateWindowOptions) (HostWindow, error)
	// DestroyWindow returns nil once the host has destroyed the window.
	DestroyWindow(ctx context.Context, w HostWindow) error
	Maximize(ctx context.Context, w HostWindow) error
	Minimize(ctx context.Context, w HostWindow) error
	Restore(ctx context.Context, w HostWindow) error
	SetFullScreen(ctx context.Context, w HostWindow, fullscreen bool) error
	Focus(ctx context.Context, w HostWindow) error

	// Events is closed when the host shuts down.
	Events() <-chan HostEvent
	Close() error
}
