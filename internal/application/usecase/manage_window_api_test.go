package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/application/port"
	portmocks "github.com/bnema/tabbridge/internal/application/port/mocks"
	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/eventbus"
	"github.com/bnema/tabbridge/internal/infrastructure/host/memory"
	"github.com/bnema/tabbridge/internal/infrastructure/policy"
	"github.com/bnema/tabbridge/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type bridge struct {
	t        *testing.T
	ctx      context.Context
	host     *memory.Host
	store    *usecase.WindowStore
	bus      *eventbus.Bus
	sub      *eventbus.Subscription
	observer *usecase.HostObserver
	uc       *usecase.ManageWindowsUseCase
}

func newBridge(t *testing.T, p port.WindowPolicy) *bridge {
	t.Helper()
	ctx := testContext()
	if p == nil {
		p = policy.Default{}
	}
	host := memory.New()
	store := usecase.NewWindowStore(p)
	bus := eventbus.New(ctx, 1024)
	sub, cancel := bus.Subscribe("test")
	t.Cleanup(cancel)
	observer := usecase.NewHostObserver(host, store, bus)

	return &bridge{
		t:        t,
		ctx:      ctx,
		host:     host,
		store:    store,
		bus:      bus,
		sub:      sub,
		observer: observer,
		uc:       usecase.NewManageWindowsUseCase(host, store, observer),
	}
}

// drain dispatches every pending host event.
func (b *bridge) drain() {
	for {
		select {
		case ev := <-b.host.Events():
			b.observer.Dispatch(b.ctx, ev)
		default:
			return
		}
	}
}

// events returns every broadcast delivered so far.
func (b *bridge) events() []entity.Event {
	var out []entity.Event
	for {
		select {
		case ev := <-b.sub.C:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func named(events []entity.Event, name entity.EventName) []entity.Event {
	var out []entity.Event
	for _, ev := range events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func (b *bridge) create(data entity.CreateWindowData) entity.WindowDetails {
	b.t.Helper()
	d, err := b.uc.Create(b.ctx, usecase.CreateWindowInput{
		Caller: entity.BackgroundCaller("ext", "chrome-extension://ext/"),
		Data:   data,
	})
	require.NoError(b.t, err)
	b.drain()
	return d
}

func (b *bridge) hostWindow(id entity.WindowID) *memory.Window {
	b.t.Helper()
	w, err := b.store.Window(id)
	require.NoError(b.t, err)
	return w.(*memory.Window)
}

func (b *bridge) get(caller entity.Caller, id entity.WindowID) entity.WindowDetails {
	b.t.Helper()
	d, err := b.uc.Get(b.ctx, usecase.GetWindowInput{Caller: caller, WindowID: id})
	require.NoError(b.t, err)
	return d
}

func background() entity.Caller {
	return entity.BackgroundCaller("ext", "chrome-extension://ext/")
}

func inWindow(id entity.WindowID) entity.Caller {
	return entity.Caller{
		ExtensionID:  "ext",
		ExtensionURL: "chrome-extension://ext/",
		Kind:         entity.CallerContentScript,
		WindowID:     id,
		TabID:        entity.TabIDNone,
	}
}

func intp(v int) *int { return &v }

func TestManageWindows_Get_UnknownReturnsStub(t *testing.T) {
	b := newBridge(t, nil)

	for _, id := range []entity.WindowID{42, entity.WindowIDNone, 0} {
		d := b.get(background(), id)
		assert.True(t, d.IsStub(), "id %d", id)
		assert.Equal(t, entity.WindowIDNone, d.ID)
	}
}

func TestManageWindows_GetCurrent_DependsOnCallerKind(t *testing.T) {
	b := newBridge(t, nil)
	a := b.create(entity.CreateWindowData{})
	b.create(entity.CreateWindowData{})

	cur, err := b.uc.GetCurrent(b.ctx, background())
	require.NoError(t, err)
	assert.Nil(t, cur, "background callers have no current window")

	cur, err = b.uc.GetCurrent(b.ctx, inWindow(a.ID))
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, a.ID, cur.ID)

	assert.Equal(t, a.ID, b.get(inWindow(a.ID), entity.WindowIDCurrent).ID)
}

func TestManageWindows_GetCurrentSentinel_FallsBackToLastFocused(t *testing.T) {
	b := newBridge(t, nil)
	a := b.create(entity.CreateWindowData{})

	assert.True(t, b.get(background(), entity.WindowIDCurrent).IsStub())

	require.NoError(t, b.host.Focus(b.ctx, b.hostWindow(a.ID)))
	b.drain()

	d := b.get(background(), entity.WindowIDCurrent)
	assert.Equal(t, a.ID, d.ID)
	assert.True(t, d.Focused)
}

func TestManageWindows_Update_MaximizeNormalRoundTrip(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{
		URL:   entity.URLList{"https://example.com"},
		Left:  intp(100),
		Top:   intp(50),
		Width: intp(640),
	})
	before := b.get(background(), w.ID)

	maxed, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
		Caller:   background(),
		WindowID: w.ID,
		Info:     entity.UpdateWindowInfo{State: entity.WindowStateMaximized},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WindowStateMaximized, maxed.State)
	b.drain()

	normal, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
		Caller:   background(),
		WindowID: w.ID,
		Info:     entity.UpdateWindowInfo{State: entity.WindowStateNormal},
	})
	require.NoError(t, err)
	b.drain()

	assert.Equal(t, before, normal)
	assert.Equal(t, before, b.get(background(), w.ID))
}

func TestManageWindows_Update_StateTransitions(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{})

	update := func(state entity.WindowState) entity.WindowDetails {
		d, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
			Caller:   background(),
			WindowID: w.ID,
			Info:     entity.UpdateWindowInfo{State: state},
		})
		require.NoError(t, err)
		b.drain()
		return d
	}

	assert.Equal(t, entity.WindowStateMinimized, update(entity.WindowStateMinimized).State)
	assert.Equal(t, entity.WindowStateNormal, update(entity.WindowStateNormal).State)
	assert.Equal(t, entity.WindowStateMaximized, update(entity.WindowStateMaximized).State)
	assert.Equal(t, entity.WindowStateFullscreen, update(entity.WindowStateFullscreen).State)
	// leaving fullscreen uncovers the maximized flag
	assert.Equal(t, entity.WindowStateMaximized, update(entity.WindowStateNormal).State)
	assert.Equal(t, entity.WindowStateNormal, update(entity.WindowStateNormal).State)
}

func TestManageWindows_Update_AnnouncesStateChange(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{})
	b.events()

	update := func(state entity.WindowState) {
		_, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
			Caller:   background(),
			WindowID: w.ID,
			Info:     entity.UpdateWindowInfo{State: state},
		})
		require.NoError(t, err)
		b.drain()
	}

	update(entity.WindowStateMaximized)
	updated := named(b.events(), entity.EventWindowUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, []any{w.ID, entity.WindowChange{State: entity.WindowStateMaximized}}, updated[0].Args)

	update(entity.WindowStateMaximized)
	assert.Empty(t, named(b.events(), entity.EventWindowUpdated), "repeating the state must not re-announce")

	update(entity.WindowStateNormal)
	updated = named(b.events(), entity.EventWindowUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, []any{w.ID, entity.WindowChange{State: entity.WindowStateNormal}}, updated[0].Args)
}

func TestManageWindows_Update_FullscreenUnsupportedIsNoop(t *testing.T) {
	b := newBridge(t, nil)
	w := b.host.Add(memory.WindowSpec{Bounds: entity.Bounds{Width: 300, Height: 200}})
	b.drain()
	id, ok := b.store.LookupWindow(w)
	require.True(t, ok)

	d, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
		Caller:   background(),
		WindowID: id,
		Info:     entity.UpdateWindowInfo{State: entity.WindowStateFullscreen},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WindowStateNormal, d.State)
	assert.False(t, w.Flags().Fullscreen)
}

func TestManageWindows_Update_InvalidAndUnknown(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{})

	_, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
		Caller:   background(),
		WindowID: w.ID,
		Info:     entity.UpdateWindowInfo{State: "floating"},
	})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
	assert.Equal(t, entity.KindInvalidArgument, entity.ErrorKind(err))

	d, err := b.uc.Update(b.ctx, usecase.UpdateWindowInput{
		Caller:   background(),
		WindowID: 999,
		Info:     entity.UpdateWindowInfo{State: entity.WindowStateMaximized},
	})
	require.NoError(t, err)
	assert.True(t, d.IsStub())
}

func TestManageWindows_FocusDeduplicated(t *testing.T) {
	b := newBridge(t, nil)
	a := b.create(entity.CreateWindowData{})
	b.events()

	require.NoError(t, b.host.Focus(b.ctx, b.hostWindow(a.ID)))
	require.NoError(t, b.host.Focus(b.ctx, b.hostWindow(a.ID)))
	b.drain()

	focus := named(b.events(), entity.EventWindowFocusChanged)
	require.Len(t, focus, 1)
	assert.Equal(t, []any{a.ID}, focus[0].Args)
}

func TestManageWindows_Remove_ThenGetReturnsStub(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{URL: entity.URLList{"https://example.com"}})
	b.events()

	id := w.ID
	require.NoError(t, b.uc.Remove(b.ctx, usecase.RemoveWindowInput{Caller: background(), WindowID: &id}))
	assert.True(t, b.get(background(), id).IsStub())

	// the host's own close notification must not announce a second removal
	b.drain()
	events := b.events()
	removed := named(events, entity.EventWindowRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, []any{id}, removed[0].Args)
	assert.Len(t, named(events, entity.EventTabRemoved), 1)

	require.NoError(t, b.uc.Remove(b.ctx, usecase.RemoveWindowInput{Caller: background(), WindowID: &id}))
	assert.Empty(t, b.events())
}

func TestManageWindows_Remove_DefaultsToCurrent(t *testing.T) {
	b := newBridge(t, nil)
	a := b.create(entity.CreateWindowData{})
	other := b.create(entity.CreateWindowData{})

	require.NoError(t, b.uc.Remove(b.ctx, usecase.RemoveWindowInput{Caller: inWindow(a.ID)}))
	assert.True(t, b.get(background(), a.ID).IsStub())
	assert.False(t, b.get(background(), other.ID).IsStub())

	// background caller with nothing focused resolves nothing
	require.NoError(t, b.uc.Remove(b.ctx, usecase.RemoveWindowInput{Caller: background()}))
	assert.False(t, b.get(background(), other.ID).IsStub())
}

func TestManageWindows_Remove_HostRefusal(t *testing.T) {
	b := newBridge(t, nil)
	w := b.host.Add(memory.WindowSpec{RefuseClose: true})
	b.drain()
	id, ok := b.store.LookupWindow(w)
	require.True(t, ok)
	b.events()

	err := b.uc.Remove(b.ctx, usecase.RemoveWindowInput{Caller: background(), WindowID: &id})
	require.ErrorIs(t, err, entity.ErrHostFailure)
	require.ErrorIs(t, err, memory.ErrCloseRefused)
	assert.Equal(t, entity.KindHostFailure, entity.ErrorKind(err))

	assert.Equal(t, id, b.get(background(), id).ID)
	assert.Empty(t, named(b.events(), entity.EventWindowRemoved))
}

func TestManageWindows_FocusTwoWindows(t *testing.T) {
	b := newBridge(t, nil)
	a := b.create(entity.CreateWindowData{})
	bw := b.create(entity.CreateWindowData{})

	require.NoError(t, b.host.Focus(b.ctx, b.hostWindow(a.ID)))
	require.NoError(t, b.host.Focus(b.ctx, b.hostWindow(bw.ID)))
	b.drain()

	focus := named(b.events(), entity.EventWindowFocusChanged)
	require.Len(t, focus, 2)
	assert.Equal(t, []any{a.ID}, focus[0].Args)
	assert.Equal(t, []any{bw.ID}, focus[1].Args)

	last, err := b.uc.GetLastFocused(b.ctx, background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, bw.ID, last.ID)
	assert.True(t, last.Focused)

	all, err := b.uc.GetAll(b.ctx, background())
	require.NoError(t, err)
	ids := make([]entity.WindowID, 0, len(all))
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []entity.WindowID{a.ID, bw.ID}, ids)

	prev := b.get(background(), a.ID)
	assert.False(t, prev.Focused)
}

func TestManageWindows_TabsFollowHost(t *testing.T) {
	b := newBridge(t, nil)
	w := b.create(entity.CreateWindowData{})
	hw := b.hostWindow(w.ID)

	first, err := b.host.AddTab(hw, "https://one.example", "One")
	require.NoError(t, err)
	_, err = b.host.AddTab(hw, "https://two.example", "Two")
	require.NoError(t, err)
	b.drain()

	d := b.get(background(), w.ID)
	require.Len(t, d.Tabs, 2)
	for i, tab := range d.Tabs {
		assert.Equal(t, w.ID, tab.WindowID)
		assert.Equal(t, i, tab.Index)
	}
	assert.Len(t, named(b.events(), entity.EventTabCreated), 2)

	require.NoError(t, b.host.RemoveTab(first))
	b.drain()

	d = b.get(background(), w.ID)
	require.Len(t, d.Tabs, 1)
	assert.Equal(t, "https://two.example", d.Tabs[0].URL)
	assert.Equal(t, 0, d.Tabs[0].Index)

	removed := named(b.events(), entity.EventTabRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, entity.TabRemoveInfo{WindowID: w.ID}, removed[0].Args[1])
}

func TestManageWindows_Create(t *testing.T) {
	b := newBridge(t, nil)

	d, err := b.uc.Create(b.ctx, usecase.CreateWindowInput{
		Caller: inWindow(entity.WindowIDNone),
		Data: entity.CreateWindowData{
			URL:    entity.URLList{"popup.html", "ignored.html"},
			Width:  intp(320),
			Height: intp(240),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 320, d.Width)
	assert.Equal(t, 240, d.Height)
	assert.Equal(t, entity.WindowTypeNormal, d.Type)
	assert.Equal(t, entity.DefaultSessionID, d.SessionID)
	require.Len(t, d.Tabs, 1)
	assert.Equal(t, "chrome-extension://ext/popup.html", d.Tabs[0].URL)

	created := named(b.events(), entity.EventWindowCreated)
	require.Len(t, created, 1)
	b.drain()
	assert.Empty(t, named(b.events(), entity.EventWindowCreated), "host notification must not announce twice")

	_, err = b.uc.Create(b.ctx, usecase.CreateWindowInput{
		Caller: background(),
		Data:   entity.CreateWindowData{Width: intp(-1)},
	})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestManageWindows_PolicyHooks(t *testing.T) {
	pol := portmocks.NewMockWindowPolicy(t)
	pol.EXPECT().WindowType(mock.Anything).Return(entity.WindowTypePopup)
	pol.EXPECT().SessionID(mock.Anything).Return("work")
	pol.EXPECT().ResolveWindowByID(mock.Anything, mock.Anything, entity.WindowID(99)).Return(entity.WindowID(1), true)
	pol.EXPECT().ResolveCurrentWindow(mock.Anything, mock.Anything, mock.Anything).Return(entity.WindowIDNone, false)

	b := newBridge(t, pol)
	w := b.host.Add(memory.WindowSpec{Bounds: entity.Bounds{Width: 200, Height: 100}})
	b.drain()

	d := b.get(background(), 99)
	assert.Equal(t, entity.WindowID(1), d.ID)
	assert.Equal(t, entity.WindowTypePopup, d.Type)
	assert.Equal(t, "work", d.SessionID)

	cur, err := b.uc.GetCurrent(b.ctx, inWindow(1))
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, b.host.Focus(b.ctx, w))
	b.drain()
	assert.Equal(t, entity.WindowID(1), b.get(inWindow(1), entity.WindowIDCurrent).ID)
}

func TestResolveCreateURL(t *testing.T) {
	caller := entity.BackgroundCaller("ext", "chrome-extension://ext")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"relative", "popup.html", "chrome-extension://ext/popup.html"},
		{"nested relative", "pages/a.html?x=1#top", "chrome-extension://ext/pages/a.html?x=1#top"},
		{"absolute path", "/a/b.html", "chrome-extension://ext/a/b.html"},
		{"scheme without host", "file:///tmp/x.html", "chrome-extension://ext/tmp/x.html"},
		{"full url", "https://example.com/x", "https://example.com/x"},
		{"opaque", "about:blank", "about:blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.ResolveCreateURL(caller, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
