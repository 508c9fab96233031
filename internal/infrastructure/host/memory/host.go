// Package memory is an in-process window host. It behaves like a native host:
// every operation mutates window state and raises the matching lifecycle
// event on a buffered stream.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

// DefaultEventBuffer is the size of the lifecycle event buffer.
const DefaultEventBuffer = 1024

var (
	// ErrClosed is returned by operations on a closed host.
	ErrClosed = errors.New("memory host closed")
	// ErrCloseRefused is returned when a window refuses to close.
	ErrCloseRefused = errors.New("window refused to close")
	// ErrNotFullScreenable is returned when fullscreen is requested on a
	// window that cannot enter it.
	ErrNotFullScreenable = errors.New("window is not fullscreenable")
	// ErrForeignWindow is returned for windows that belong to another host.
	ErrForeignWindow = errors.New("window does not belong to this host")
)

var defaultBounds = entity.Bounds{Left: 0, Top: 0, Width: 800, Height: 600}

// Host is an in-process port.WindowHost.
type Host struct {
	mu      sync.Mutex
	next    uint64
	windows []*Window
	screen  entity.Bounds
	closed  bool

	emitMu sync.RWMutex
	events chan port.HostEvent
	done   chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithScreen sets the bounds maximized windows take.
func WithScreen(b entity.Bounds) Option {
	return func(h *Host) { h.screen = b }
}

// WithEventBuffer sets the event buffer size.
func WithEventBuffer(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.events = make(chan port.HostEvent, n)
		}
	}
}

// New creates an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		screen: entity.Bounds{Width: 1920, Height: 1080},
		events: make(chan port.HostEvent, DefaultEventBuffer),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ port.WindowHost = (*Host)(nil)

// Events implements port.WindowHost.
func (h *Host) Events() <-chan port.HostEvent {
	return h.events
}

// Close stops the event stream.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)
	h.mu.Unlock()

	h.emitMu.Lock()
	close(h.events)
	h.emitMu.Unlock()
	return nil
}

// Windows implements port.WindowHost.
func (h *Host) Windows(_ context.Context) ([]port.HostWindow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]port.HostWindow, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	return out, nil
}

// WindowSpec describes a window to add without going through CreateWindow.
type WindowSpec struct {
	Bounds         entity.Bounds
	Flags          entity.WindowFlags
	Focused        bool
	FullScreenable bool
	AlwaysOnTop    bool
	Incognito      bool
	RefuseClose    bool
	Tabs           []TabSpec
}

// TabSpec describes a tab of a WindowSpec.
type TabSpec struct {
	URL    string
	Title  string
	Active bool
}

// CreateWindow implements port.WindowHost. The window gets one tab loading
// opts.URL when it is set, and is focused only when opts.Focused is true.
func (h *Host) CreateWindow(_ context.Context, opts port.CreateWindowOptions) (port.HostWindow, error) {
	bounds := defaultBounds
	if opts.Left != nil {
		bounds.Left = *opts.Left
	}
	if opts.Top != nil {
		bounds.Top = *opts.Top
	}
	if opts.Width != nil {
		bounds.Width = *opts.Width
	}
	if opts.Height != nil {
		bounds.Height = *opts.Height
	}

	spec := WindowSpec{
		Bounds:         bounds,
		FullScreenable: true,
		Incognito:      opts.Incognito,
	}
	if opts.URL != "" {
		spec.Tabs = []TabSpec{{URL: opts.URL, Title: opts.URL, Active: true}}
	}
	switch opts.State {
	case entity.WindowStateMinimized:
		spec.Flags.Minimized = true
	case entity.WindowStateMaximized:
		spec.Flags.Maximized = true
	case entity.WindowStateFullscreen:
		spec.Flags.Fullscreen = true
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	w := h.addLocked(spec)
	h.mu.Unlock()

	h.emit(port.HostEvent{Kind: port.HostWindowAdded, Window: w})
	if opts.Focused != nil && *opts.Focused {
		_ = h.Focus(context.Background(), w)
	}
	return w, nil
}

// Seed adds a pre-existing window without raising events.
func (h *Host) Seed(spec WindowSpec) *Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.addLocked(spec)
	if spec.Focused {
		for _, other := range h.windows {
			other.focused = other == w
		}
	}
	return w
}

// Add adds a window and raises the window-added event, as if the user
// opened it outside the bridge.
func (h *Host) Add(spec WindowSpec) *Window {
	h.mu.Lock()
	w := h.addLocked(spec)
	h.mu.Unlock()
	h.emit(port.HostEvent{Kind: port.HostWindowAdded, Window: w})
	return w
}

func (h *Host) addLocked(spec WindowSpec) *Window {
	h.next++
	w := &Window{
		host:           h,
		handle:         h.next,
		bounds:         spec.Bounds,
		restoreBounds:  spec.Bounds,
		flags:          spec.Flags,
		fullScreenable: spec.FullScreenable,
		alwaysOnTop:    spec.AlwaysOnTop,
		incognito:      spec.Incognito,
		refuseClose:    spec.RefuseClose,
	}
	if spec.Flags.Maximized {
		w.bounds = h.screen
	}
	for _, ts := range spec.Tabs {
		h.next++
		w.tabs = append(w.tabs, &Tab{host: h, handle: h.next, url: ts.URL, title: ts.Title, active: ts.Active})
	}
	h.windows = append(h.windows, w)
	return w
}

// DestroyWindow implements port.WindowHost.
func (h *Host) DestroyWindow(_ context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	h.mu.Lock()
	if w.refuseClose {
		h.mu.Unlock()
		return ErrCloseRefused
	}
	if !h.destroyLocked(w) {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()
	h.emit(port.HostEvent{Kind: port.HostWindowClosed, Window: w})
	return nil
}

// CloseWindow destroys w as if the user closed it.
func (h *Host) CloseWindow(w *Window) {
	h.mu.Lock()
	ok := h.destroyLocked(w)
	h.mu.Unlock()
	if ok {
		h.emit(port.HostEvent{Kind: port.HostWindowClosed, Window: w})
	}
}

func (h *Host) destroyLocked(w *Window) bool {
	if w.destroyed {
		return false
	}
	w.destroyed = true
	w.focused = false
	for _, t := range w.tabs {
		t.destroyed = true
	}
	h.windows = slices.DeleteFunc(h.windows, func(o *Window) bool { return o == w })
	return true
}

// Maximize implements port.WindowHost.
func (h *Host) Maximize(_ context.Context, hw port.HostWindow) error {
	return h.mutate(hw, port.HostWindowMaximized, func(w *Window) error {
		if !w.flags.Maximized {
			w.restoreBounds = w.bounds
		}
		w.flags.Maximized = true
		w.flags.Minimized = false
		w.bounds = h.screen
		return nil
	})
}

// Minimize implements port.WindowHost.
func (h *Host) Minimize(_ context.Context, hw port.HostWindow) error {
	return h.mutate(hw, port.HostWindowMinimized, func(w *Window) error {
		w.flags.Minimized = true
		w.focused = false
		return nil
	})
}

// Restore implements port.WindowHost.
func (h *Host) Restore(_ context.Context, hw port.HostWindow) error {
	return h.mutate(hw, port.HostWindowRestored, func(w *Window) error {
		w.flags.Minimized = false
		if w.flags.Maximized {
			w.flags.Maximized = false
			w.bounds = w.restoreBounds
		}
		return nil
	})
}

// SetFullScreen implements port.WindowHost.
func (h *Host) SetFullScreen(_ context.Context, hw port.HostWindow, fullscreen bool) error {
	kind := port.HostWindowLeaveFullScreen
	if fullscreen {
		kind = port.HostWindowEnterFullScreen
	}
	return h.mutate(hw, kind, func(w *Window) error {
		if fullscreen && !w.fullScreenable {
			return ErrNotFullScreenable
		}
		w.flags.Fullscreen = fullscreen
		return nil
	})
}

// Focus implements port.WindowHost. The previously focused window is blurred.
func (h *Host) Focus(_ context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	h.mu.Lock()
	if w.destroyed {
		h.mu.Unlock()
		return fmt.Errorf("focus: %w", entity.ErrNotFound)
	}
	var blurred *Window
	for _, other := range h.windows {
		if other != w && other.focused {
			other.focused = false
			blurred = other
		}
	}
	w.focused = true
	w.flags.Minimized = false
	h.mu.Unlock()

	if blurred != nil {
		h.emit(port.HostEvent{Kind: port.HostWindowBlurred, Window: blurred})
	}
	h.emit(port.HostEvent{Kind: port.HostWindowFocused, Window: w})
	return nil
}

// Move sets w's bounds as if the user dragged it.
func (h *Host) Move(w *Window, b entity.Bounds) error {
	return h.mutate(w, port.HostWindowMoved, func(w *Window) error {
		w.bounds = b
		return nil
	})
}

// AddTab appends a tab to w.
func (h *Host) AddTab(w *Window, url, title string) (*Tab, error) {
	h.mu.Lock()
	if w.destroyed {
		h.mu.Unlock()
		return nil, fmt.Errorf("add tab: %w", entity.ErrNotFound)
	}
	h.next++
	t := &Tab{host: h, handle: h.next, url: url, title: title}
	w.tabs = append(w.tabs, t)
	h.mu.Unlock()

	h.emit(port.HostEvent{Kind: port.HostTabAdded, Window: w, Tab: t})
	return t, nil
}

// RemoveTab closes t.
func (h *Host) RemoveTab(t *Tab) error {
	h.mu.Lock()
	w := h.ownerLocked(t)
	if w == nil || t.destroyed {
		h.mu.Unlock()
		return fmt.Errorf("remove tab: %w", entity.ErrNotFound)
	}
	t.destroyed = true
	w.tabs = slices.DeleteFunc(w.tabs, func(o *Tab) bool { return o == t })
	h.mu.Unlock()

	h.emit(port.HostEvent{Kind: port.HostTabRemoved, Window: w, Tab: t})
	return nil
}

// UpdateTab navigates t.
func (h *Host) UpdateTab(t *Tab, url, title string) error {
	h.mu.Lock()
	w := h.ownerLocked(t)
	if w == nil || t.destroyed {
		h.mu.Unlock()
		return fmt.Errorf("update tab: %w", entity.ErrNotFound)
	}
	t.url, t.title = url, title
	h.mu.Unlock()

	h.emit(port.HostEvent{Kind: port.HostTabUpdated, Window: w, Tab: t})
	return nil
}

// ActivateTab makes t the active tab of its window.
func (h *Host) ActivateTab(t *Tab) error {
	h.mu.Lock()
	w := h.ownerLocked(t)
	if w == nil || t.destroyed {
		h.mu.Unlock()
		return fmt.Errorf("activate tab: %w", entity.ErrNotFound)
	}
	for _, o := range w.tabs {
		o.active = o == t
	}
	h.mu.Unlock()

	h.emit(port.HostEvent{Kind: port.HostTabActivated, Window: w, Tab: t})
	return nil
}

func (h *Host) ownerLocked(t *Tab) *Window {
	for _, w := range h.windows {
		if slices.Contains(w.tabs, t) {
			return w
		}
	}
	return nil
}

func (h *Host) mutate(hw port.HostWindow, kind port.HostEventKind, fn func(*Window) error) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	h.mu.Lock()
	if w.destroyed {
		h.mu.Unlock()
		return fmt.Errorf("%s: %w", kind, entity.ErrNotFound)
	}
	if err := fn(w); err != nil {
		h.mu.Unlock()
		return err
	}
	h.mu.Unlock()
	h.emit(port.HostEvent{Kind: kind, Window: w})
	return nil
}

func (h *Host) own(hw port.HostWindow) (*Window, error) {
	w, ok := hw.(*Window)
	if !ok || w.host != h {
		return nil, ErrForeignWindow
	}
	return w, nil
}

func (h *Host) emit(ev port.HostEvent) {
	h.emitMu.RLock()
	defer h.emitMu.RUnlock()
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case <-h.done:
	case h.events <- ev:
	}
}
