package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

// HostObserver consumes the host's tagged event stream and keeps the store
// and the broadcast stream in step with it. All state derivation and
// focus de-duplication rules live in Dispatch.
//
// windows.onUpdated and windows.onBoundsChanged compare against what was
// last announced, not against the cache: windows.update recomputes the
// cache before the host's own event is dispatched, and that event must
// still be announced.
type HostObserver struct {
	host      port.WindowHost
	store     *WindowStore
	publisher port.EventPublisher

	mu        sync.Mutex
	announced map[entity.WindowID]announcement
}

// announcement is the last state and geometry broadcast for a window.
type announcement struct {
	state  entity.WindowState
	bounds entity.Bounds
}

// NewHostObserver creates an observer for host.
func NewHostObserver(host port.WindowHost, store *WindowStore, publisher port.EventPublisher) *HostObserver {
	return &HostObserver{
		host:      host,
		store:     store,
		publisher: publisher,
		announced: make(map[entity.WindowID]announcement),
	}
}

// Sync registers the windows the host already has. The focused one becomes
// the last focused window without a broadcast.
func (o *HostObserver) Sync(ctx context.Context) error {
	log := logging.FromContext(ctx)

	windows, err := o.host.Windows(ctx)
	if err != nil {
		return fmt.Errorf("list host windows: %w", err)
	}
	for _, w := range windows {
		if w.IsDestroyed() {
			continue
		}
		id := o.TrackWindow(ctx, w)
		if w.IsFocused() {
			o.store.SetLastFocused(id)
		}
	}
	log.Debug().Int("windows", len(windows)).Msg("host windows synced")
	return nil
}

// Run dispatches host events until ctx is done or the host closes its stream.
func (o *HostObserver) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	events := o.host.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				log.Debug().Msg("host event stream closed")
				return nil
			}
			o.Dispatch(ctx, ev)
		}
	}
}

// TrackWindow registers w and announces it on first sight.
func (o *HostObserver) TrackWindow(ctx context.Context, w port.HostWindow) entity.WindowID {
	id, created := o.store.AddWindow(w)
	if !created {
		return id
	}
	details, err := o.store.Details(id)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("window_id", int(id)).Msg("created window vanished before announce")
		return id
	}
	o.mu.Lock()
	o.announced[id] = announcement{state: details.State, bounds: details.Bounds()}
	o.mu.Unlock()
	o.publisher.Emit(entity.EventWindowCreated, id, entity.TabIDNone, details)
	for _, td := range details.Tabs {
		o.publisher.Emit(entity.EventTabCreated, id, td.ID, td)
	}
	return id
}

// RetireWindow removes id from the store and announces the removal.
// Only the first call for an identity broadcasts.
func (o *HostObserver) RetireWindow(ctx context.Context, id entity.WindowID) bool {
	tabs, ok := o.store.RetireWindow(id)
	if !ok {
		return false
	}
	o.mu.Lock()
	delete(o.announced, id)
	o.mu.Unlock()
	for _, tid := range tabs {
		o.publisher.Emit(entity.EventTabRemoved, id, tid, tid,
			entity.TabRemoveInfo{WindowID: id, IsWindowClosing: true})
	}
	o.publisher.Emit(entity.EventWindowRemoved, id, entity.TabIDNone, id)
	logging.FromContext(ctx).Debug().Int("window_id", int(id)).Int("tabs", len(tabs)).Msg("window retired")
	return true
}

// Dispatch applies one host event.
func (o *HostObserver) Dispatch(ctx context.Context, ev port.HostEvent) {
	if ev.Window == nil {
		return
	}
	log := logging.FromContext(ctx)

	if ev.Kind == port.HostWindowClosed {
		if id, ok := o.store.LookupWindow(ev.Window); ok {
			o.RetireWindow(ctx, id)
		}
		return
	}
	if ev.Window.IsDestroyed() {
		log.Debug().Stringer("kind", ev.Kind).Msg("event for destroyed window ignored")
		return
	}

	id := o.TrackWindow(ctx, ev.Window)
	if !id.Valid() {
		log.Debug().Stringer("kind", ev.Kind).Msg("event for removed window ignored")
		return
	}
	log.Debug().Stringer("kind", ev.Kind).Int("window_id", int(id)).Msg("host event")

	switch ev.Kind {
	case port.HostWindowAdded:
		// tracked above
	case port.HostWindowFocused:
		o.focus(id)
	case port.HostWindowBlurred:
		o.mergeFocused(id, false)
	case port.HostWindowMinimized:
		o.setState(log, id, entity.WindowStateMinimized)
	case port.HostWindowMaximized:
		o.setState(log, id, entity.WindowStateMaximized)
	case port.HostWindowEnterFullScreen, port.HostWindowEnterHTMLFullScreen:
		o.setState(log, id, entity.WindowStateFullscreen)
	case port.HostWindowLeaveFullScreen, port.HostWindowLeaveHTMLFullScreen, port.HostWindowUnmaximized:
		o.setState(log, id, entity.DeriveWindowState(ev.Window.Flags()))
	case port.HostWindowRestored:
		o.setState(log, id, entity.WindowStateNormal)
	case port.HostWindowMoved, port.HostWindowResized:
		o.moved(log, id, ev.Window)
	case port.HostTabAdded:
		o.tabAdded(log, id, ev.Tab)
	case port.HostTabRemoved:
		o.tabRemoved(log, ev.Tab)
	case port.HostTabUpdated:
		o.tabUpdated(log, id, ev.Tab)
	case port.HostTabActivated:
		o.tabActivated(log, id, ev.Tab)
	default:
		log.Warn().Int("kind", int(ev.Kind)).Msg("unknown host event")
	}
}

func (o *HostObserver) focus(id entity.WindowID) {
	prev, changed := o.store.SetLastFocused(id)
	o.mergeFocused(id, true)
	if !changed {
		return
	}
	if prev.Valid() {
		o.mergeFocused(prev, false)
	}
	o.publisher.Emit(entity.EventWindowFocusChanged, id, entity.TabIDNone, id)
}

func (o *HostObserver) mergeFocused(id entity.WindowID, focused bool) {
	_, _, _ = o.store.Merge(id, func(d *entity.WindowDetails) { d.Focused = focused })
}

func (o *HostObserver) setState(log *zerolog.Logger, id entity.WindowID, state entity.WindowState) {
	before, after, err := o.store.Merge(id, func(d *entity.WindowDetails) { d.State = state })
	if err != nil {
		log.Debug().Err(err).Int("window_id", int(id)).Msg("state merge skipped")
		return
	}
	if before.State != after.State {
		log.Trace().Int("window_id", int(id)).Str("state", string(after.State)).Msg("state merged")
	}
	o.announceState(id, after.State)
}

// announceState broadcasts windows.onUpdated when state differs from the
// last state announced for id.
func (o *HostObserver) announceState(id entity.WindowID, state entity.WindowState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prev, ok := o.announced[id]
	if ok && prev.state == state {
		return
	}
	prev.state = state
	o.announced[id] = prev
	o.publisher.Emit(entity.EventWindowUpdated, id, entity.TabIDNone, id, entity.WindowChange{State: state})
}

func (o *HostObserver) moved(log *zerolog.Logger, id entity.WindowID, w port.HostWindow) {
	bounds := w.Bounds()
	state := entity.DeriveWindowState(w.Flags())
	before, after, err := o.store.Merge(id, func(d *entity.WindowDetails) {
		d.SetBounds(bounds)
		d.State = state
	})
	if err != nil {
		log.Debug().Err(err).Int("window_id", int(id)).Msg("bounds merge skipped")
		return
	}
	if before.Bounds() != after.Bounds() {
		log.Trace().Int("window_id", int(id)).Msg("bounds merged")
	}
	o.announceBounds(id, after)
	o.announceState(id, after.State)
}

// announceBounds broadcasts windows.onBoundsChanged when the geometry of d
// differs from the last geometry announced for its window.
func (o *HostObserver) announceBounds(id entity.WindowID, d entity.WindowDetails) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prev, ok := o.announced[id]
	if ok && prev.bounds == d.Bounds() {
		return
	}
	if !ok {
		prev.state = d.State
	}
	prev.bounds = d.Bounds()
	o.announced[id] = prev
	o.publisher.Emit(entity.EventWindowBoundsChanged, id, entity.TabIDNone, d)
}

func (o *HostObserver) tabAdded(log *zerolog.Logger, window entity.WindowID, t port.HostTab) {
	if t == nil {
		return
	}
	tid, created := o.store.AddTab(window, t)
	if _, err := o.store.Recompute(window); err != nil {
		log.Debug().Err(err).Int("window_id", int(window)).Msg("window recompute failed")
	}
	if !created {
		return
	}
	td, err := o.store.TabDetails(tid)
	if err != nil {
		return
	}
	o.publisher.Emit(entity.EventTabCreated, window, tid, td)
}

func (o *HostObserver) tabRemoved(log *zerolog.Logger, t port.HostTab) {
	if t == nil {
		return
	}
	tid, owner, ok := o.store.RemoveTab(t)
	if !ok {
		return
	}
	if owner.Valid() {
		if _, err := o.store.Recompute(owner); err != nil {
			log.Debug().Err(err).Int("window_id", int(owner)).Msg("window recompute failed")
		}
	}
	o.publisher.Emit(entity.EventTabRemoved, owner, tid, tid, entity.TabRemoveInfo{WindowID: owner})
}

func (o *HostObserver) tabUpdated(log *zerolog.Logger, window entity.WindowID, t port.HostTab) {
	if t == nil {
		return
	}
	tid, ok := o.store.LookupTab(t)
	if !ok {
		o.tabAdded(log, window, t)
		return
	}
	before, hadBefore := o.store.PeekTabDetails(tid)
	after, err := o.store.RecomputeTab(tid)
	if err != nil {
		return
	}
	if owner, ok := o.store.TabOwner(tid); ok && owner.Valid() {
		if _, err := o.store.Recompute(owner); err != nil {
			log.Debug().Err(err).Int("window_id", int(owner)).Msg("window recompute failed")
		}
	}

	var change entity.TabChange
	if !hadBefore || before.URL != after.URL {
		change.URL = after.URL
	}
	if !hadBefore || before.Title != after.Title {
		change.Title = after.Title
	}
	if change == (entity.TabChange{}) {
		return
	}
	o.publisher.Emit(entity.EventTabUpdated, after.WindowID, tid, tid, change, after)
}

func (o *HostObserver) tabActivated(log *zerolog.Logger, window entity.WindowID, t port.HostTab) {
	if t == nil {
		return
	}
	tid, ok := o.store.LookupTab(t)
	if !ok {
		return
	}
	if _, err := o.store.Recompute(window); err != nil {
		log.Debug().Err(err).Int("window_id", int(window)).Msg("window recompute failed")
	}
	o.publisher.Emit(entity.EventTabActivated, window, tid, entity.TabActiveInfo{TabID: tid, WindowID: window})
}
