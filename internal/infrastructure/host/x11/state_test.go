package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

func TestParseWMState(t *testing.T) {
	tests := []struct {
		name   string
		states []string
		want   windowState
	}{
		{name: "empty", want: windowState{}},
		{
			name:   "hidden",
			states: []string{stateHidden},
			want:   windowState{flags: entity.WindowFlags{Minimized: true}},
		},
		{
			name:   "half maximized is not maximized",
			states: []string{stateMaximizedVert},
			want:   windowState{},
		},
		{
			name:   "maximized both ways",
			states: []string{stateMaximizedHorz, stateMaximizedVert},
			want:   windowState{flags: entity.WindowFlags{Maximized: true}},
		},
		{
			name:   "fullscreen above",
			states: []string{stateFullscreen, stateAbove, "_NET_WM_STATE_STICKY"},
			want:   windowState{flags: entity.WindowFlags{Fullscreen: true}, above: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWMState(tt.states))
		})
	}
}

func TestFlagTransitions(t *testing.T) {
	tests := []struct {
		name       string
		prev, next entity.WindowFlags
		want       []port.HostEventKind
	}{
		{name: "unchanged", prev: entity.WindowFlags{Maximized: true}, next: entity.WindowFlags{Maximized: true}},
		{
			name: "minimize",
			next: entity.WindowFlags{Minimized: true},
			want: []port.HostEventKind{port.HostWindowMinimized},
		},
		{
			name: "restore",
			prev: entity.WindowFlags{Minimized: true},
			want: []port.HostEventKind{port.HostWindowRestored},
		},
		{
			name: "maximized to fullscreen",
			prev: entity.WindowFlags{Maximized: true},
			next: entity.WindowFlags{Maximized: true, Fullscreen: true},
			want: []port.HostEventKind{port.HostWindowEnterFullScreen},
		},
		{
			name: "leave fullscreen before unmaximize",
			prev: entity.WindowFlags{Maximized: true, Fullscreen: true},
			want: []port.HostEventKind{port.HostWindowLeaveFullScreen, port.HostWindowUnmaximized},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flagTransitions(tt.prev, tt.next))
		})
	}
}

func TestBoundsTransitions(t *testing.T) {
	base := entity.Bounds{Left: 10, Top: 10, Width: 100, Height: 100}

	assert.Empty(t, boundsTransitions(base, base))

	moved := base
	moved.Left = 20
	assert.Equal(t, []port.HostEventKind{port.HostWindowMoved}, boundsTransitions(base, moved))

	both := moved
	both.Height = 200
	assert.Equal(t, []port.HostEventKind{port.HostWindowMoved, port.HostWindowResized}, boundsTransitions(base, both))
}

func TestFullScreenable(t *testing.T) {
	assert.True(t, fullScreenable(nil))
	assert.True(t, fullScreenable([]string{"_NET_WM_ACTION_MOVE", actionFullscreen}))
	assert.False(t, fullScreenable([]string{"_NET_WM_ACTION_MOVE"}))
}

func TestManagedType(t *testing.T) {
	assert.True(t, managedType(nil))
	assert.True(t, managedType([]string{"_NET_WM_WINDOW_TYPE_NORMAL"}))
	assert.True(t, managedType([]string{"_NET_WM_WINDOW_TYPE_DIALOG"}))
	assert.False(t, managedType([]string{"_NET_WM_WINDOW_TYPE_DOCK"}))
}

func TestDiffClients(t *testing.T) {
	known := map[xproto.Window]*Window{
		1: {id: 1, listed: true},
		2: {id: 2, listed: true},
		3: {id: 3},
	}

	added, removed := diffClients(known, []xproto.Window{5, 2, 4})
	assert.Equal(t, []xproto.Window{5, 4}, added)
	assert.Equal(t, []xproto.Window{1}, removed, "unlisted windows are still pending, not removed")
}

func TestWindowTypeAtom(t *testing.T) {
	assert.Equal(t, "_NET_WM_WINDOW_TYPE_NORMAL", windowTypeAtom(entity.WindowTypeNormal))
	assert.Equal(t, "_NET_WM_WINDOW_TYPE_NORMAL", windowTypeAtom(""))
	assert.Equal(t, "_NET_WM_WINDOW_TYPE_DIALOG", windowTypeAtom(entity.WindowTypePopup))
}

func TestPad32(t *testing.T) {
	assert.Equal(t, []uint32{3, 0, 0, 0, 0}, pad32([]uint32{iconicState}))
}
