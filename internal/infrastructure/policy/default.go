// Package policy provides window policies answering context-dependent
// questions for the bridge.
package policy

import (
	"context"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

// Default is the policy used when the host supplies none. Embed it and
// override selectively.
//
//   - CURRENT is the caller's hosting window, unless the caller is
//     background logic, which has none.
//   - Concrete identities are used as given.
//   - Type is "normal" and the session tag is "default" unless set.
//   - Tabs get no extra fields.
type Default struct {
	Type    entity.WindowType
	Session string
}

var _ port.WindowPolicy = Default{}

func (d Default) ResolveCurrentWindow(_ context.Context, caller entity.Caller, _ entity.WindowID) (entity.WindowID, bool) {
	if !caller.WindowBound() {
		return entity.WindowIDNone, false
	}
	return caller.WindowID, true
}

func (d Default) ResolveWindowByID(_ context.Context, _ entity.Caller, id entity.WindowID) (entity.WindowID, bool) {
	return id, false
}

func (d Default) WindowType(port.HostWindow) entity.WindowType {
	if d.Type.Valid() {
		return d.Type
	}
	return entity.WindowTypeNormal
}

func (d Default) SessionID(port.HostWindow) string {
	if d.Session != "" {
		return d.Session
	}
	return entity.DefaultSessionID
}

func (d Default) AssignTabDetails(*entity.TabDetails, port.HostTab) {}
