package memory

import (
	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

// Window is a memory host window. Accessors are safe for concurrent use.
type Window struct {
	host   *Host
	handle uint64

	bounds         entity.Bounds
	restoreBounds  entity.Bounds
	flags          entity.WindowFlags
	focused        bool
	fullScreenable bool
	alwaysOnTop    bool
	incognito      bool
	refuseClose    bool
	destroyed      bool
	tabs           []*Tab
}

var _ port.HostWindow = (*Window)(nil)

func (w *Window) Handle() uint64 { return w.handle }

func (w *Window) Bounds() entity.Bounds {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.bounds
}

func (w *Window) Flags() entity.WindowFlags {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.flags
}

func (w *Window) IsFocused() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.focused
}

func (w *Window) IsFullScreenable() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.fullScreenable
}

func (w *Window) IsAlwaysOnTop() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.alwaysOnTop
}

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

// Tabs returns the window's tabs in display order.
func (w *Window) Tabs() []port.HostTab {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	out := make([]port.HostTab, 0, len(w.tabs))
	for _, t := range w.tabs {
		out = append(out, t)
	}
	return out
}

// Tab returns the i-th tab, or nil.
func (w *Window) Tab(i int) *Tab {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	if i < 0 || i >= len(w.tabs) {
		return nil
	}
	return w.tabs[i]
}

// Tab is a memory host tab.
type Tab struct {
	host      *Host
	handle    uint64
	url       string
	title     string
	active    bool
	destroyed bool
}

var _ port.HostTab = (*Tab)(nil)

func (t *Tab) Handle() uint64 { return t.handle }

func (t *Tab) Info() entity.TabInfo {
	t.host.mu.Lock()
	defer t.host.mu.Unlock()
	return entity.TabInfo{URL: t.url, Title: t.title, Active: t.active}
}

func (t *Tab) IsDestroyed() bool {
	t.host.mu.Lock()
	defer t.host.mu.Unlock()
	return t.destroyed
}
