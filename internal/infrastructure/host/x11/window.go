package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

// Window is a managed X11 client window. Its state is a cache kept
// current by the host's event loop.
type Window struct {
	host  *Host
	id    xproto.Window
	owned bool

	// Guarded by host.mu.
	bounds         entity.Bounds
	state          windowState
	fullScreenable bool
	incognito      bool
	listed         bool
	destroyed      bool
}

var _ port.HostWindow = (*Window)(nil)

// XID returns the X window id.
func (w *Window) XID() xproto.Window { return w.id }

// Handle implements port.HostWindow. X window ids are unique while the
// window exists.
func (w *Window) Handle() uint64 { return uint64(w.id) }

func (w *Window) Bounds() entity.Bounds {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.bounds
}

func (w *Window) Flags() entity.WindowFlags {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.state.flags
}

func (w *Window) IsFocused() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return !w.destroyed && w.host.active == w.id
}

func (w *Window) IsFullScreenable() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.fullScreenable
}

func (w *Window) IsAlwaysOnTop() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.state.above
}

// IsIncognito is only true for windows this host created as incognito.
func (w *Window) IsIncognito() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.incognito
}

func (w *Window) IsDestroyed() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.destroyed
}

// Tabs always returns nil.
func (w *Window) Tabs() []port.HostTab { return nil }
