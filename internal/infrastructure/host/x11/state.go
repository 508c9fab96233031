package x11

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

const (
	stateHidden        = "_NET_WM_STATE_HIDDEN"
	stateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateFullscreen    = "_NET_WM_STATE_FULLSCREEN"
	stateAbove         = "_NET_WM_STATE_ABOVE"

	actionFullscreen = "_NET_WM_ACTION_FULLSCREEN"

	// _NET_WM_STATE request actions.
	stateRemove = 0
	stateAdd    = 1

	// WM_CHANGE_STATE payload for iconify.
	iconicState = 3
	// Source indication for EWMH requests: pager/direct action.
	sourcePager = 2
)

// windowState is what _NET_WM_STATE says about a window.
type windowState struct {
	flags entity.WindowFlags
	above bool
}

// parseWMState maps _NET_WM_STATE atoms to window flags. A window counts
// as maximized only when it is maximized in both directions.
func parseWMState(states []string) windowState {
	var s windowState
	var vert, horz bool
	for _, st := range states {
		switch st {
		case stateHidden:
			s.flags.Minimized = true
		case stateMaximizedVert:
			vert = true
		case stateMaximizedHorz:
			horz = true
		case stateFullscreen:
			s.flags.Fullscreen = true
		case stateAbove:
			s.above = true
		}
	}
	s.flags.Maximized = vert && horz
	return s
}

// flagTransitions lists the host events that take a window from prev to next.
func flagTransitions(prev, next entity.WindowFlags) []port.HostEventKind {
	var out []port.HostEventKind
	if prev.Fullscreen && !next.Fullscreen {
		out = append(out, port.HostWindowLeaveFullScreen)
	}
	if prev.Minimized != next.Minimized {
		if next.Minimized {
			out = append(out, port.HostWindowMinimized)
		} else {
			out = append(out, port.HostWindowRestored)
		}
	}
	if prev.Maximized != next.Maximized {
		if next.Maximized {
			out = append(out, port.HostWindowMaximized)
		} else {
			out = append(out, port.HostWindowUnmaximized)
		}
	}
	if !prev.Fullscreen && next.Fullscreen {
		out = append(out, port.HostWindowEnterFullScreen)
	}
	return out
}

// boundsTransitions lists the host events for a geometry change.
func boundsTransitions(prev, next entity.Bounds) []port.HostEventKind {
	var out []port.HostEventKind
	if prev.Left != next.Left || prev.Top != next.Top {
		out = append(out, port.HostWindowMoved)
	}
	if prev.Width != next.Width || prev.Height != next.Height {
		out = append(out, port.HostWindowResized)
	}
	return out
}

// fullScreenable reports whether the allowed actions permit fullscreen.
// Window managers that do not publish _NET_WM_ALLOWED_ACTIONS allow it.
func fullScreenable(actions []string) bool {
	return len(actions) == 0 || slices.Contains(actions, actionFullscreen)
}

// managedType reports whether a window of these types is a regular
// application window. Docks, desktops and similar are skipped.
func managedType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return true
}

// diffClients compares the known windows against a fresh client list.
// Added windows keep client-list order. A known window that was never
// listed (created here, not yet managed) is not reported as removed.
func diffClients(known map[xproto.Window]*Window, list []xproto.Window) (added, removed []xproto.Window) {
	seen := make(map[xproto.Window]struct{}, len(list))
	for _, id := range list {
		seen[id] = struct{}{}
		if _, ok := known[id]; !ok {
			added = append(added, id)
		}
	}
	for id, w := range known {
		if _, ok := seen[id]; !ok && w.listed {
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	return added, removed
}

// windowTypeAtom is the _NET_WM_WINDOW_TYPE for a created window.
func windowTypeAtom(t entity.WindowType) string {
	switch t {
	case entity.WindowTypePopup, entity.WindowTypePanel:
		return "_NET_WM_WINDOW_TYPE_DIALOG"
	default:
		return "_NET_WM_WINDOW_TYPE_NORMAL"
	}
}
