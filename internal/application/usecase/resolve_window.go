package usecase

import (
	"context"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

// WindowResolver turns concrete and sentinel window identifiers into live
// window identities for a calling context.
type WindowResolver struct {
	store *WindowStore
}

// NewWindowResolver creates a resolver over store.
func NewWindowResolver(store *WindowStore) *WindowResolver {
	return &WindowResolver{store: store}
}

// Resolve returns the live window named by id for caller.
//
// CURRENT goes through the policy and falls back to the last focused
// window. Concrete identities may be remapped by the policy. Anything that
// does not name a live window reports ok=false.
func (r *WindowResolver) Resolve(ctx context.Context, caller entity.Caller, id entity.WindowID) (entity.WindowID, bool) {
	if id.IsCurrent() {
		if cur, ok := r.Current(ctx, caller); ok {
			return cur, true
		}
		return r.LastFocused()
	}
	if !id.Valid() {
		return entity.WindowIDNone, false
	}

	if mapped, ok := r.store.Policy().ResolveWindowByID(ctx, caller, id); ok {
		logging.FromContext(ctx).Trace().Int("window_id", int(id)).Int("mapped", int(mapped)).Msg("window id remapped by policy")
		id = mapped
	}
	if !r.store.HasWindow(id) {
		return entity.WindowIDNone, false
	}
	return id, true
}

// Current asks the policy which window the caller considers itself.
// There is no fallback.
func (r *WindowResolver) Current(ctx context.Context, caller entity.Caller) (entity.WindowID, bool) {
	id, ok := r.store.Policy().ResolveCurrentWindow(ctx, caller, r.store.LastFocused())
	if !ok || !r.store.HasWindow(id) {
		return entity.WindowIDNone, false
	}
	return id, true
}

// LastFocused returns the last focused window if it is still live.
func (r *WindowResolver) LastFocused() (entity.WindowID, bool) {
	id := r.store.LastFocused()
	if !id.Valid() || !r.store.HasWindow(id) {
		return entity.WindowIDNone, false
	}
	return id, true
}
