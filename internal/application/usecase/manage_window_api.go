package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
	domainurl "github.com/bnema/tabbridge/internal/domain/url"
	"github.com/bnema/tabbridge/internal/logging"
)

// ManageWindowsUseCase answers the windows.* extension calls.
// It holds no state; everything goes through the store and the host.
type ManageWindowsUseCase struct {
	host     port.WindowHost
	store    *WindowStore
	resolver *WindowResolver
	observer *HostObserver
}

// NewManageWindowsUseCase creates the windows API use case.
func NewManageWindowsUseCase(host port.WindowHost, store *WindowStore, observer *HostObserver) *ManageWindowsUseCase {
	return &ManageWindowsUseCase{
		host:     host,
		store:    store,
		resolver: NewWindowResolver(store),
		observer: observer,
	}
}

// GetWindowInput contains parameters for windows.get.
type GetWindowInput struct {
	Caller   entity.Caller
	WindowID entity.WindowID
}

// Get returns the details of a window, or the {id: NONE} stub when the
// identifier does not resolve. Unknown identities are not an error.
func (uc *ManageWindowsUseCase) Get(ctx context.Context, input GetWindowInput) (entity.WindowDetails, error) {
	ctx = logging.WithExtensionID(ctx, input.Caller.ExtensionID)
	log := logging.FromContext(ctx)

	id, ok := uc.resolver.Resolve(ctx, input.Caller, input.WindowID)
	if !ok {
		log.Debug().Stringer("window_id", input.WindowID).Msg("window not resolved")
		return entity.NoWindow(), nil
	}
	return uc.detailsOrStub(id)
}

// GetCurrent returns the caller's own window, or nil when the policy names
// none (background callers, by default).
func (uc *ManageWindowsUseCase) GetCurrent(ctx context.Context, caller entity.Caller) (*entity.WindowDetails, error) {
	id, ok := uc.resolver.Current(ctx, caller)
	if !ok {
		return nil, nil
	}
	return uc.detailsOrNil(id)
}

// GetLastFocused returns the most recently focused window, or nil.
func (uc *ManageWindowsUseCase) GetLastFocused(ctx context.Context, _ entity.Caller) (*entity.WindowDetails, error) {
	id, ok := uc.resolver.LastFocused()
	if !ok {
		return nil, nil
	}
	return uc.detailsOrNil(id)
}

// GetAll returns the details of every live window in identity order.
func (uc *ManageWindowsUseCase) GetAll(ctx context.Context, _ entity.Caller) ([]entity.WindowDetails, error) {
	ids := uc.store.WindowIDs()
	out := make([]entity.WindowDetails, 0, len(ids))
	for _, id := range ids {
		d, err := uc.store.Details(id)
		if errors.Is(err, entity.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	logging.FromContext(ctx).Trace().Int("windows", len(out)).Msg("listed windows")
	return out, nil
}

// CreateWindowInput contains parameters for windows.create.
type CreateWindowInput struct {
	Caller entity.Caller
	Data   entity.CreateWindowData
}

// Create asks the host for a new window and returns its details.
func (uc *ManageWindowsUseCase) Create(ctx context.Context, input CreateWindowInput) (entity.WindowDetails, error) {
	ctx = logging.WithExtensionID(ctx, input.Caller.ExtensionID)
	log := logging.FromContext(ctx)

	if err := input.Data.Validate(); err != nil {
		return entity.WindowDetails{}, err
	}
	target, err := ResolveCreateURL(input.Caller, input.Data.URL.First())
	if err != nil {
		return entity.WindowDetails{}, err
	}

	log.Debug().Str("url", target).Msg("creating window")

	w, err := uc.host.CreateWindow(ctx, port.CreateWindowOptions{
		URL:       target,
		Left:      input.Data.Left,
		Top:       input.Data.Top,
		Width:     input.Data.Width,
		Height:    input.Data.Height,
		Focused:   input.Data.Focused,
		Incognito: input.Data.Incognito,
		Type:      input.Data.Type,
		State:     input.Data.State,
	})
	if err != nil {
		return entity.WindowDetails{}, fmt.Errorf("create window: %w: %w", entity.ErrHostFailure, err)
	}

	id := uc.observer.TrackWindow(ctx, w)
	details, err := uc.store.Details(id)
	if err != nil {
		return entity.WindowDetails{}, fmt.Errorf("created window %s: %w", id, err)
	}

	log.Info().Int("window_id", int(id)).Str("url", target).Msg("window created")
	return details, nil
}

// UpdateWindowInput contains parameters for windows.update.
type UpdateWindowInput struct {
	Caller   entity.Caller
	WindowID entity.WindowID
	Info     entity.UpdateWindowInfo
}

// Update applies the recognized properties and returns freshly recomputed
// details. An unresolved window yields the stub.
func (uc *ManageWindowsUseCase) Update(ctx context.Context, input UpdateWindowInput) (entity.WindowDetails, error) {
	ctx = logging.WithExtensionID(ctx, input.Caller.ExtensionID)

	if err := input.Info.Validate(); err != nil {
		return entity.WindowDetails{}, err
	}
	id, ok := uc.resolver.Resolve(ctx, input.Caller, input.WindowID)
	if !ok {
		return entity.NoWindow(), nil
	}
	ctx = logging.WithWindowID(ctx, int(id))
	log := logging.FromContext(ctx)

	w, err := uc.store.Window(id)
	if err != nil {
		return entity.NoWindow(), nil
	}

	if input.Info.State != "" {
		err := uc.applyState(ctx, w, input.Info.State)
		switch {
		case errors.Is(err, entity.ErrUnsupported):
			log.Warn().Err(err).Str("state", string(input.Info.State)).Msg("state change skipped")
		case err != nil:
			return entity.WindowDetails{}, err
		}
	}

	details, err := uc.store.Recompute(id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.NoWindow(), nil
	}
	return details, err
}

func (uc *ManageWindowsUseCase) applyState(ctx context.Context, w port.HostWindow, state entity.WindowState) error {
	var err error
	switch state {
	case entity.WindowStateMaximized:
		err = uc.host.Maximize(ctx, w)
	case entity.WindowStateMinimized:
		err = uc.host.Minimize(ctx, w)
	case entity.WindowStateFullscreen:
		if !w.IsFullScreenable() {
			return fmt.Errorf("window is not fullscreenable: %w", entity.ErrUnsupported)
		}
		err = uc.host.SetFullScreen(ctx, w, true)
	case entity.WindowStateNormal:
		flags := w.Flags()
		switch {
		case flags.Fullscreen:
			err = uc.host.SetFullScreen(ctx, w, false)
		case flags.Minimized || flags.Maximized:
			err = uc.host.Restore(ctx, w)
		}
	}
	if err != nil {
		return fmt.Errorf("set window state %s: %w: %w", state, entity.ErrHostFailure, err)
	}
	return nil
}

// RemoveWindowInput contains parameters for windows.remove.
// A nil WindowID means CURRENT.
type RemoveWindowInput struct {
	Caller   entity.Caller
	WindowID *entity.WindowID
}

// Remove destroys a window. The identity is retired and windows.onRemoved
// broadcast once the host confirms. An unresolved window is a no-op.
func (uc *ManageWindowsUseCase) Remove(ctx context.Context, input RemoveWindowInput) error {
	ctx = logging.WithExtensionID(ctx, input.Caller.ExtensionID)

	target := entity.WindowIDCurrent
	if input.WindowID != nil {
		target = *input.WindowID
	}
	id, ok := uc.resolver.Resolve(ctx, input.Caller, target)
	if !ok {
		logging.FromContext(ctx).Debug().Stringer("window_id", target).Msg("remove: window not resolved")
		return nil
	}
	ctx = logging.WithWindowID(ctx, int(id))
	log := logging.FromContext(ctx)

	w, err := uc.store.Window(id)
	if err != nil {
		return nil
	}
	if err := uc.host.DestroyWindow(ctx, w); err != nil {
		return fmt.Errorf("destroy window %s: %w: %w", id, entity.ErrHostFailure, err)
	}
	uc.observer.RetireWindow(ctx, id)

	log.Info().Msg("window removed")
	return nil
}

func (uc *ManageWindowsUseCase) detailsOrStub(id entity.WindowID) (entity.WindowDetails, error) {
	d, err := uc.store.Details(id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.NoWindow(), nil
	}
	return d, err
}

func (uc *ManageWindowsUseCase) detailsOrNil(id entity.WindowID) (*entity.WindowDetails, error) {
	d, err := uc.store.Details(id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ResolveCreateURL resolves a windows.create URL against the caller's
// extension base URL.
func ResolveCreateURL(caller entity.Caller, raw string) (string, error) {
	out, err := domainurl.Resolve(caller.ExtensionURL, raw)
	if err != nil {
		return "", fmt.Errorf("%w: url %q: %v", entity.ErrInvalidArgument, raw, err)
	}
	return out, nil
}
