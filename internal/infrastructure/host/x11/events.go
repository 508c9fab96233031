package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

// listenRoot tracks _NET_CLIENT_LIST and _NET_ACTIVE_WINDOW on the root.
func (h *Host) listenRoot() error {
	xu := h.conn.XUtil
	if err := xwindow.New(xu, h.conn.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_CLIENT_LIST":
			if err := h.syncClients(true); err != nil {
				h.log.Debug().Err(err).Msg("client list sync failed")
			}
		case "_NET_ACTIVE_WINDOW":
			h.syncActive(true)
		}
	}).Connect(xu, h.conn.Root)
	return nil
}

// watchClient follows state and geometry changes of one client.
func (h *Host) watchClient(id xproto.Window) {
	xu := h.conn.XUtil
	if err := xwindow.New(xu, id).Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		h.log.Debug().Err(err).Uint32("xid", uint32(id)).Msg("listen on client failed")
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err == nil && name == "_NET_WM_STATE" {
			h.syncState(id)
		}
	}).Connect(xu, id)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		h.syncBounds(id)
	}).Connect(xu, id)
}

// syncClients reconciles the known windows with _NET_CLIENT_LIST.
func (h *Host) syncClients(announce bool) error {
	xu := h.conn.XUtil
	list, err := ewmh.ClientListGet(xu)
	if err != nil {
		return fmt.Errorf("read _NET_CLIENT_LIST: %w", err)
	}

	h.mu.Lock()
	added, removed := diffClients(h.windows, list)
	h.mu.Unlock()

	fresh := make(map[xproto.Window]*Window, len(added))
	for _, id := range added {
		if w, ok := h.inspect(id); ok {
			fresh[id] = w
		}
	}

	var (
		announced []*Window
		closed    []*Window
	)
	h.mu.Lock()
	for _, id := range removed {
		if w, ok := h.windows[id]; ok {
			h.forgetLocked(w)
			closed = append(closed, w)
		}
	}
	for id, w := range fresh {
		if _, ok := h.windows[id]; ok {
			continue
		}
		h.windows[id] = w
		announced = append(announced, w)
	}
	h.order = h.order[:0]
	for _, id := range list {
		if w, ok := h.windows[id]; ok {
			w.listed = true
			h.order = append(h.order, id)
		}
	}
	h.notifyLocked()
	h.mu.Unlock()

	for _, w := range closed {
		xevent.Detach(xu, w.id)
	}
	for _, w := range announced {
		h.watchClient(w.id)
	}
	if !announce {
		return nil
	}
	for _, w := range closed {
		h.emit(port.HostWindowClosed, w)
	}
	for _, id := range list {
		for _, w := range announced {
			if w.id == id {
				h.emit(port.HostWindowAdded, w)
			}
		}
	}
	return nil
}

// inspect reads a client's initial state. Unmanaged window types are
// skipped.
func (h *Host) inspect(id xproto.Window) (*Window, bool) {
	xu := h.conn.XUtil
	types, _ := ewmh.WmWindowTypeGet(xu, id)
	if !managedType(types) {
		return nil, false
	}
	states, _ := ewmh.WmStateGet(xu, id)
	actions, _ := ewmh.WmAllowedActionsGet(xu, id)
	return &Window{
		host:           h,
		id:             id,
		bounds:         h.geometry(id),
		state:          parseWMState(states),
		fullScreenable: fullScreenable(actions),
	}, true
}

func (h *Host) geometry(id xproto.Window) entity.Bounds {
	rect, err := xwindow.New(h.conn.XUtil, id).DecorGeometry()
	if err != nil {
		return entity.Bounds{}
	}
	return entity.Bounds{Left: rect.X(), Top: rect.Y(), Width: rect.Width(), Height: rect.Height()}
}

// syncActive follows _NET_ACTIVE_WINDOW, blurring the previous window
// before focusing the next.
func (h *Host) syncActive(announce bool) {
	next, err := ewmh.ActiveWindowGet(h.conn.XUtil)
	if err != nil {
		return
	}
	h.mu.Lock()
	prev := h.active
	if prev == next {
		h.mu.Unlock()
		return
	}
	h.active = next
	blurred, focused := h.windows[prev], h.windows[next]
	h.notifyLocked()
	h.mu.Unlock()

	if !announce {
		return
	}
	if blurred != nil {
		h.emit(port.HostWindowBlurred, blurred)
	}
	if focused != nil {
		h.emit(port.HostWindowFocused, focused)
	}
}

func (h *Host) syncState(id xproto.Window) {
	states, err := ewmh.WmStateGet(h.conn.XUtil, id)
	if err != nil {
		return
	}
	next := parseWMState(states)

	h.mu.Lock()
	w, ok := h.windows[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	kinds := flagTransitions(w.state.flags, next.flags)
	w.state = next
	h.notifyLocked()
	h.mu.Unlock()

	for _, k := range kinds {
		h.emit(k, w)
	}
}

func (h *Host) syncBounds(id xproto.Window) {
	next := h.geometry(id)

	h.mu.Lock()
	w, ok := h.windows[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	kinds := boundsTransitions(w.bounds, next)
	w.bounds = next
	h.mu.Unlock()

	for _, k := range kinds {
		h.emit(k, w)
	}
}
