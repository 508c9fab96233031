package port

import (
	"context"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// WindowPolicy lets the embedding host decide context-dependent questions.
// policy.Default documents the behavior used when a host supplies nothing.
type WindowPolicy interface {
	// ResolveCurrentWindow returns the window the caller considers itself.
	// ok=false means no window applies; the resolver then falls back to
	// lastFocused.
	ResolveCurrentWindow(ctx context.Context, caller entity.Caller, lastFocused entity.WindowID) (id entity.WindowID, ok bool)

	// ResolveWindowByID may remap a concrete identity. ok=false leaves id as is.
	ResolveWindowByID(ctx context.Context, caller entity.Caller, id entity.WindowID) (entity.WindowID, bool)

	WindowType(w HostWindow) entity.WindowType
	SessionID(w HostWindow) string

	// AssignTabDetails appends host-specific fields to d.
	AssignTabDetails(d *entity.TabDetails, t HostTab)
}
