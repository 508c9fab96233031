package rpc

import "github.com/bnema/tabbridge/internal/domain/entity"

// Caller context headers.
const (
	HeaderExtensionID  = "X-Extension-Id"
	HeaderExtensionURL = "X-Extension-Url"
	HeaderContextKind  = "X-Context-Kind"
	HeaderWindowID     = "X-Window-Id"
	HeaderTabID        = "X-Tab-Id"
)

// CallerHeaders carries the caller context and is embedded in every
// operation input.
type CallerHeaders struct {
	ExtensionID  string `header:"X-Extension-Id" doc:"Calling extension id"`
	ExtensionURL string `header:"X-Extension-Url" doc:"Extension base URL, e.g. chrome-extension://<id>/"`
	ContextKind  string `header:"X-Context-Kind" default:"background" doc:"background, content_script or extension_page"`
	WindowID     int    `header:"X-Window-Id" default:"-1" doc:"Window hosting the calling frame"`
	TabID        int    `header:"X-Tab-Id" default:"-1" doc:"Tab hosting the calling frame"`
}

// Caller converts the headers. Unknown kinds are treated as background so
// they never resolve a current window.
func (h CallerHeaders) Caller() entity.Caller {
	kind := entity.CallerKind(h.ContextKind)
	if !kind.Valid() {
		kind = entity.CallerBackground
	}
	windowID := entity.WindowID(h.WindowID)
	if kind == entity.CallerBackground {
		windowID = entity.WindowIDNone
	}
	return entity.Caller{
		ExtensionID:  h.ExtensionID,
		ExtensionURL: h.ExtensionURL,
		Kind:         kind,
		WindowID:     windowID,
		TabID:        entity.TabID(h.TabID),
	}
}
