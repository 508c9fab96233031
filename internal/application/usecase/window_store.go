package usecase

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/cache"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/registry"
)

// WindowStore composes the identity registries and detail caches for
// windows and tabs. It is the single owner of descriptors; handlers read
// copies and request changes through its methods.
//
// Lock order: window cache, tab cache, store.
type WindowStore struct {
	windows *registry.Registry[entity.WindowID, port.HostWindow]
	tabs    *registry.Registry[entity.TabID, port.HostTab]

	windowDetails *cache.DetailCache[entity.WindowID, entity.WindowDetails]
	tabDetails    *cache.DetailCache[entity.TabID, entity.TabDetails]

	mu          sync.RWMutex
	policy      port.WindowPolicy
	tabOwner    map[entity.TabID]entity.WindowID
	lastFocused entity.WindowID
}

// NewWindowStore creates an empty store using policy for host-defined fields.
func NewWindowStore(policy port.WindowPolicy) *WindowStore {
	s := &WindowStore{
		windows:     registry.New[entity.WindowID, port.HostWindow](),
		tabs:        registry.New[entity.TabID, port.HostTab](),
		policy:      policy,
		tabOwner:    make(map[entity.TabID]entity.WindowID),
		lastFocused: entity.WindowIDNone,
	}
	s.windowDetails = cache.NewDetailCache[entity.WindowID, entity.WindowDetails](s.buildWindow, entity.WindowDetails.Clone)
	s.tabDetails = cache.NewDetailCache[entity.TabID, entity.TabDetails](s.buildTab, entity.TabDetails.Clone)
	return s
}

// Policy returns the current window policy.
func (s *WindowStore) Policy() port.WindowPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy swaps the window policy. Cached descriptors keep their values
// until the next recompute.
func (s *WindowStore) SetPolicy(p port.WindowPolicy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
}

// AddWindow registers w and its current tabs. created is false when w was
// already registered. A window destroyed before registration completes is
// not kept and yields WindowIDNone.
func (s *WindowStore) AddWindow(w port.HostWindow) (entity.WindowID, bool) {
	id, created := s.windows.Register(w)
	if !created {
		return id, false
	}
	// removal destroys before it retires, so a late host event cannot
	// resurrect the window past this check
	if w.IsDestroyed() {
		s.windows.Unregister(id)
		return entity.WindowIDNone, false
	}
	for _, t := range w.Tabs() {
		if !t.IsDestroyed() {
			s.AddTab(id, t)
		}
	}
	return id, true
}

// LookupWindow returns the identity of a registered host window.
func (s *WindowStore) LookupWindow(w port.HostWindow) (entity.WindowID, bool) {
	return s.windows.Lookup(w)
}

// Window resolves a concrete identity to its live host window.
// A registered window the host already destroyed reports ErrNotFound; it is
// retired when its close event is dispatched.
func (s *WindowStore) Window(id entity.WindowID) (port.HostWindow, error) {
	w, err := s.windows.Resolve(id)
	if err != nil {
		return nil, err
	}
	if w.IsDestroyed() {
		return nil, fmt.Errorf("window %s destroyed: %w", id, entity.ErrNotFound)
	}
	return w, nil
}

// HasWindow reports whether id names a live window.
func (s *WindowStore) HasWindow(id entity.WindowID) bool {
	_, err := s.Window(id)
	return err == nil
}

// WindowIDs lists registered window identities in ascending order.
func (s *WindowStore) WindowIDs() []entity.WindowID {
	return s.windows.All()
}

// Details returns the cached descriptor for id, computing it on first access.
// A cache entry whose identity left the registry is dropped here.
func (s *WindowStore) Details(id entity.WindowID) (entity.WindowDetails, error) {
	if _, err := s.Window(id); err != nil {
		if !s.windows.Has(id) {
			s.windowDetails.Drop(id)
		}
		return entity.WindowDetails{}, err
	}
	return s.windowDetails.Get(id)
}

// Recompute rebuilds the descriptor for id from live host state.
func (s *WindowStore) Recompute(id entity.WindowID) (entity.WindowDetails, error) {
	if _, err := s.Window(id); err != nil {
		return entity.WindowDetails{}, err
	}
	return s.windowDetails.Recompute(id)
}

// Merge applies a partial update to the descriptor for id.
func (s *WindowStore) Merge(id entity.WindowID, patch func(*entity.WindowDetails)) (before, after entity.WindowDetails, err error) {
	if _, err := s.Window(id); err != nil {
		return before, after, err
	}
	return s.windowDetails.Invalidate(id, patch)
}

// RetireWindow unregisters id, drops its descriptor and retires its tabs.
// ok is false when id was not registered, so callers announce removal once.
func (s *WindowStore) RetireWindow(id entity.WindowID) (tabs []entity.TabID, ok bool) {
	if _, ok = s.windows.Unregister(id); !ok {
		return nil, false
	}
	s.windowDetails.Drop(id)

	s.mu.Lock()
	for tid, owner := range s.tabOwner {
		if owner == id {
			tabs = append(tabs, tid)
			delete(s.tabOwner, tid)
		}
	}
	if s.lastFocused == id {
		s.lastFocused = entity.WindowIDNone
	}
	s.mu.Unlock()

	slices.Sort(tabs)
	for _, tid := range tabs {
		s.tabs.Unregister(tid)
		s.tabDetails.Drop(tid)
	}
	return tabs, true
}

// LastFocused returns the last focused window, or WindowIDNone.
func (s *WindowStore) LastFocused() entity.WindowID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFocused
}

// SetLastFocused records id as last focused. changed is false when id was
// already the last focused window.
func (s *WindowStore) SetLastFocused(id entity.WindowID) (prev entity.WindowID, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.lastFocused
	if prev == id {
		return prev, false
	}
	s.lastFocused = id
	return prev, true
}

// AddTab registers t as owned by window.
func (s *WindowStore) AddTab(window entity.WindowID, t port.HostTab) (entity.TabID, bool) {
	id, created := s.tabs.Register(t)
	s.mu.Lock()
	s.tabOwner[id] = window
	s.mu.Unlock()
	return id, created
}

// LookupTab returns the identity of a registered host tab.
func (s *WindowStore) LookupTab(t port.HostTab) (entity.TabID, bool) {
	return s.tabs.Lookup(t)
}

// RemoveTab retires t and returns its former identity and owner.
func (s *WindowStore) RemoveTab(t port.HostTab) (entity.TabID, entity.WindowID, bool) {
	id, ok := s.tabs.Lookup(t)
	if !ok {
		return entity.TabIDNone, entity.WindowIDNone, false
	}
	s.tabs.Unregister(id)
	s.tabDetails.Drop(id)

	s.mu.Lock()
	owner, known := s.tabOwner[id]
	delete(s.tabOwner, id)
	s.mu.Unlock()
	if !known {
		owner = entity.WindowIDNone
	}
	return id, owner, true
}

// TabOwner returns the window owning tab id.
func (s *WindowStore) TabOwner(id entity.TabID) (entity.WindowID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.tabOwner[id]
	return owner, ok
}

// TabDetails returns the cached descriptor for tab id.
func (s *WindowStore) TabDetails(id entity.TabID) (entity.TabDetails, error) {
	if !s.tabs.Has(id) {
		s.tabDetails.Drop(id)
		return entity.TabDetails{}, fmt.Errorf("tab %s: %w", id, entity.ErrNotFound)
	}
	return s.tabDetails.Get(id)
}

// PeekTabDetails returns the cached tab descriptor without computing it.
func (s *WindowStore) PeekTabDetails(id entity.TabID) (entity.TabDetails, bool) {
	return s.tabDetails.Peek(id)
}

// RecomputeTab rebuilds the descriptor for tab id.
func (s *WindowStore) RecomputeTab(id entity.TabID) (entity.TabDetails, error) {
	if !s.tabs.Has(id) {
		return entity.TabDetails{}, fmt.Errorf("tab %s: %w", id, entity.ErrNotFound)
	}
	return s.tabDetails.Recompute(id)
}

func (s *WindowStore) buildWindow(id entity.WindowID) (entity.WindowDetails, error) {
	w, err := s.Window(id)
	if err != nil {
		return entity.WindowDetails{}, err
	}
	policy := s.Policy()

	d := entity.WindowDetails{
		ID:          id,
		Focused:     w.IsFocused(),
		Incognito:   w.IsIncognito(),
		Type:        policy.WindowType(w),
		State:       entity.DeriveWindowState(w.Flags()),
		AlwaysOnTop: w.IsAlwaysOnTop(),
		SessionID:   policy.SessionID(w),
	}
	d.SetBounds(w.Bounds())

	hostTabs := w.Tabs()
	d.Tabs = make([]entity.TabDetails, 0, len(hostTabs))
	for _, t := range hostTabs {
		if t.IsDestroyed() {
			continue
		}
		tid, ok := s.tabs.Lookup(t)
		if !ok {
			continue
		}
		if owner, _ := s.TabOwner(tid); owner != id {
			continue
		}
		td, err := s.tabDetails.Recompute(tid)
		if err != nil {
			continue
		}
		d.Tabs = append(d.Tabs, td)
	}
	return d, nil
}

func (s *WindowStore) buildTab(id entity.TabID) (entity.TabDetails, error) {
	t, err := s.tabs.Resolve(id)
	if err != nil {
		return entity.TabDetails{}, err
	}
	info := t.Info()
	d := entity.TabDetails{
		ID:       id,
		WindowID: entity.WindowIDNone,
		Index:    -1,
		URL:      info.URL,
		Title:    info.Title,
		Active:   info.Active,
		Selected: info.Active,
	}

	if owner, ok := s.TabOwner(id); ok {
		if w, err := s.Window(owner); err == nil {
			d.WindowID = owner
			d.Index = slices.IndexFunc(w.Tabs(), func(ht port.HostTab) bool {
				return ht.Handle() == t.Handle()
			})
		}
	}

	s.Policy().AssignTabDetails(&d, t)
	return d, nil
}
