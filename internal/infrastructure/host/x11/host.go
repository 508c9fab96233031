package x11

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/rs/zerolog"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

const (
	// DefaultEventBuffer is the size of the lifecycle event buffer.
	DefaultEventBuffer = 1024
	// DefaultApplyTimeout bounds how long an operation waits for the
	// window manager to reflect a request.
	DefaultApplyTimeout = 2 * time.Second
)

var (
	// ErrClosed is returned by operations on a closed host.
	ErrClosed = errors.New("x11 host closed")
	// ErrNotApplied is returned when the window manager does not apply a
	// request before the apply timeout.
	ErrNotApplied = errors.New("window manager did not apply request")
	// ErrForeignWindow is returned for windows that belong to another host.
	ErrForeignWindow = errors.New("window does not belong to this host")
)

var defaultBounds = entity.Bounds{Width: 800, Height: 600}

// Host is a port.WindowHost over an X11 connection.
type Host struct {
	conn *Connection
	log  zerolog.Logger

	mu           sync.Mutex
	windows      map[xproto.Window]*Window
	order        []xproto.Window
	active       xproto.Window
	changed      chan struct{}
	closed       bool
	applyTimeout time.Duration

	emitMu sync.RWMutex
	events chan port.HostEvent
	loop   chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithApplyTimeout sets how long operations wait for the window manager.
func WithApplyTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.applyTimeout = d
		}
	}
}

// WithEventBuffer sets the event buffer size.
func WithEventBuffer(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.events = make(chan port.HostEvent, n)
		}
	}
}

// New connects to display and starts the X event loop.
func New(ctx context.Context, display string, opts ...Option) (*Host, error) {
	conn, err := NewConnection(display)
	if err != nil {
		return nil, err
	}
	h := &Host{
		conn:         conn,
		log:          logging.FromContext(ctx).With().Str("component", "x11").Logger(),
		windows:      make(map[xproto.Window]*Window),
		changed:      make(chan struct{}),
		applyTimeout: DefaultApplyTimeout,
		events:       make(chan port.HostEvent, DefaultEventBuffer),
		loop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	if err := h.listenRoot(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := h.syncClients(false); err != nil {
		conn.Close()
		return nil, err
	}
	h.syncActive(false)

	go func() {
		defer close(h.loop)
		conn.EventLoop()
	}()
	h.log.Info().Int("windows", len(h.order)).Msg("connected to X server")
	return h, nil
}

var _ port.WindowHost = (*Host)(nil)

// Events implements port.WindowHost.
func (h *Host) Events() <-chan port.HostEvent {
	return h.events
}

// Close stops the event loop, closes the event stream and disconnects.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.conn.Quit()
	<-h.loop

	h.emitMu.Lock()
	close(h.events)
	h.emitMu.Unlock()

	h.conn.Close()
	return nil
}

// Windows implements port.WindowHost. Windows come back in
// _NET_CLIENT_LIST order.
func (h *Host) Windows(_ context.Context) ([]port.HostWindow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	out := make([]port.HostWindow, 0, len(h.order))
	for _, id := range h.order {
		if w, ok := h.windows[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// CreateWindow maps a new top-level window titled with the target URL
// and waits for the window manager to manage it.
func (h *Host) CreateWindow(ctx context.Context, opts port.CreateWindowOptions) (port.HostWindow, error) {
	if h.isClosed() {
		return nil, ErrClosed
	}
	xu := h.conn.XUtil
	screen := xu.Screen()

	b := defaultBounds
	if opts.Left != nil {
		b.Left = *opts.Left
	}
	if opts.Top != nil {
		b.Top = *opts.Top
	}
	if opts.Width != nil {
		b.Width = *opts.Width
	}
	if opts.Height != nil {
		b.Height = *opts.Height
	}

	wid, err := xproto.NewWindowId(xu.Conn())
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	err = xproto.CreateWindowChecked(
		xu.Conn(),
		screen.RootDepth,
		wid,
		h.conn.Root,
		int16(b.Left), int16(b.Top),
		uint16(b.Width), uint16(b.Height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.WhitePixel,
			uint32(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify),
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	title := opts.URL
	if title == "" {
		title = "about:blank"
	}
	if err := ewmh.WmNameSet(xu, wid, title); err != nil {
		h.log.Debug().Err(err).Msg("set _NET_WM_NAME failed")
	}
	if err := icccm.WmNameSet(xu, wid, title); err != nil {
		h.log.Debug().Err(err).Msg("set WM_NAME failed")
	}
	if err := ewmh.WmWindowTypeSet(xu, wid, []string{windowTypeAtom(opts.Type)}); err != nil {
		h.log.Debug().Err(err).Msg("set window type failed")
	}

	w := &Window{
		host:           h,
		id:             wid,
		owned:          true,
		bounds:         b,
		fullScreenable: true,
		incognito:      opts.Incognito,
	}
	h.mu.Lock()
	h.windows[wid] = w
	h.mu.Unlock()
	h.watchClient(wid)

	xproto.MapWindow(xu.Conn(), wid)

	if err := h.await(ctx, func() bool { return w.listed }); err != nil {
		h.log.Warn().Err(err).Uint32("xid", uint32(wid)).Msg("window not yet managed")
	}

	switch opts.State {
	case entity.WindowStateMaximized:
		err = h.Maximize(ctx, w)
	case entity.WindowStateMinimized:
		err = h.Minimize(ctx, w)
	case entity.WindowStateFullscreen:
		err = h.SetFullScreen(ctx, w, true)
	}
	if err != nil {
		h.log.Warn().Err(err).Str("state", string(opts.State)).Msg("initial window state not applied")
	}

	if opts.Focused == nil || *opts.Focused {
		if err := h.Focus(ctx, w); err != nil {
			h.log.Debug().Err(err).Msg("focus new window failed")
		}
	}
	return w, nil
}

// DestroyWindow destroys windows this host created and asks foreign
// clients to close via WM_DELETE_WINDOW, falling back to _NET_CLOSE_WINDOW.
func (h *Host) DestroyWindow(ctx context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	if w.IsDestroyed() {
		return nil
	}
	xu := h.conn.XUtil

	if w.owned {
		if err := xproto.DestroyWindowChecked(xu.Conn(), w.id).Check(); err != nil {
			return fmt.Errorf("destroy window: %w", err)
		}
		h.mu.Lock()
		h.forgetLocked(w)
		h.mu.Unlock()
		return nil
	}

	protocols, _ := icccm.WmProtocolsGet(xu, w.id)
	if slices.Contains(protocols, "WM_DELETE_WINDOW") {
		err = h.conn.sendDeleteWindow(w.id)
	} else {
		err = ewmh.CloseWindow(xu, w.id)
	}
	if err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	return h.await(ctx, func() bool { return w.destroyed })
}

// Maximize implements port.WindowHost.
func (h *Host) Maximize(ctx context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	if err := ewmh.WmStateReqExtra(h.conn.XUtil, w.id, stateAdd, stateMaximizedVert, stateMaximizedHorz, sourcePager); err != nil {
		return fmt.Errorf("maximize: %w", err)
	}
	return h.await(ctx, func() bool { return w.state.flags.Maximized })
}

// Minimize iconifies via WM_CHANGE_STATE.
func (h *Host) Minimize(ctx context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	if err := h.conn.sendRootMessage(w.id, "WM_CHANGE_STATE", iconicState); err != nil {
		return fmt.Errorf("minimize: %w", err)
	}
	return h.await(ctx, func() bool { return w.state.flags.Minimized })
}

// Restore leaves the minimized and maximized states. Activating an
// iconified window is how EWMH deiconifies it.
func (h *Host) Restore(ctx context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	flags := w.Flags()
	if flags.Minimized {
		if err := h.conn.sendRootMessage(w.id, "_NET_ACTIVE_WINDOW", sourcePager); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}
	if flags.Maximized {
		if err := ewmh.WmStateReqExtra(h.conn.XUtil, w.id, stateRemove, stateMaximizedVert, stateMaximizedHorz, sourcePager); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}
	return h.await(ctx, func() bool {
		return !w.state.flags.Minimized && !w.state.flags.Maximized
	})
}

// SetFullScreen implements port.WindowHost.
func (h *Host) SetFullScreen(ctx context.Context, hw port.HostWindow, fullscreen bool) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	action := stateRemove
	if fullscreen {
		action = stateAdd
	}
	if err := ewmh.WmStateReq(h.conn.XUtil, w.id, action, stateFullscreen); err != nil {
		return fmt.Errorf("set fullscreen: %w", err)
	}
	return h.await(ctx, func() bool { return w.state.flags.Fullscreen == fullscreen })
}

// Focus activates and raises a window using _NET_ACTIVE_WINDOW.
func (h *Host) Focus(ctx context.Context, hw port.HostWindow) error {
	w, err := h.own(hw)
	if err != nil {
		return err
	}
	if err := h.conn.sendRootMessage(w.id, "_NET_ACTIVE_WINDOW", sourcePager); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	return h.await(ctx, func() bool { return h.active == w.id })
}

func (h *Host) own(hw port.HostWindow) (*Window, error) {
	w, ok := hw.(*Window)
	if !ok || w.host != h {
		return nil, ErrForeignWindow
	}
	if h.isClosed() {
		return nil, ErrClosed
	}
	return w, nil
}

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// await blocks until done reports true, the apply timeout passes or ctx
// ends. done is called with h.mu held and is re-checked after each state
// change the event loop records.
func (h *Host) await(ctx context.Context, done func() bool) error {
	timer := time.NewTimer(h.applyTimeout)
	defer timer.Stop()
	for {
		h.mu.Lock()
		ok, changed, closed := done(), h.changed, h.closed
		h.mu.Unlock()
		if ok {
			return nil
		}
		if closed {
			return ErrClosed
		}
		select {
		case <-changed:
		case <-timer.C:
			return ErrNotApplied
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// notifyLocked wakes every await. Callers hold h.mu.
func (h *Host) notifyLocked() {
	close(h.changed)
	h.changed = make(chan struct{})
}

// forgetLocked marks w destroyed and drops it. Callers hold h.mu.
func (h *Host) forgetLocked(w *Window) {
	w.destroyed = true
	delete(h.windows, w.id)
	for i, id := range h.order {
		if id == w.id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if h.active == w.id {
		h.active = 0
	}
	h.notifyLocked()
}

func (h *Host) emit(kind port.HostEventKind, w *Window) {
	h.emitMu.RLock()
	defer h.emitMu.RUnlock()
	if h.isClosed() {
		return
	}
	select {
	case h.events <- port.HostEvent{Kind: kind, Window: w}:
	default:
		h.log.Warn().Stringer("kind", kind).Uint32("xid", uint32(w.id)).Msg("event buffer full, dropping host event")
	}
}
