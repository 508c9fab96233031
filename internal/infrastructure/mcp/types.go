package mcp

import "github.com/bnema/tabbridge/internal/domain/entity"

// CallerArgs identifies the calling extension context. Every field is optional;
// an empty context is an extension background page.
type CallerArgs struct {
	ExtensionID    string `json:"extension_id,omitempty" jsonschema:"Calling extension id"`
	ExtensionURL   string `json:"extension_url,omitempty" jsonschema:"Extension base URL used to resolve relative create URLs"`
	ContextKind    string `json:"context_kind,omitempty" jsonschema:"background (default), content_script or extension_page"`
	CallerWindowID *int   `json:"caller_window_id,omitempty" jsonschema:"Window hosting the calling frame"`
	CallerTabID    *int   `json:"caller_tab_id,omitempty" jsonschema:"Tab hosting the calling frame"`
}

// Caller converts the arguments; unknown kinds fall back to background.
func (a CallerArgs) Caller() entity.Caller {
	c := entity.BackgroundCaller(a.ExtensionID, a.ExtensionURL)
	kind := entity.CallerKind(a.ContextKind)
	if !kind.Valid() || kind == entity.CallerBackground {
		return c
	}
	c.Kind = kind
	if a.CallerWindowID != nil {
		c.WindowID = entity.WindowID(*a.CallerWindowID)
	}
	if a.CallerTabID != nil {
		c.TabID = entity.TabID(*a.CallerTabID)
	}
	return c
}

// CallerInput is the input of tools taking no other argument.
type CallerInput struct {
	Context CallerArgs `json:"context,omitempty" jsonschema:"Calling extension context"`
}

// GetWindowInput is the input for the windows_get tool.
type GetWindowInput struct {
	Context CallerArgs `json:"context,omitempty" jsonschema:"Calling extension context"`
	WindowID int `json:"window_id" jsonschema:"Window id; -2 names the caller's current window"`
}

// CreateWindowInput is the input for the windows_create tool.
type CreateWindowInput struct {
	Context CallerArgs `json:"context,omitempty" jsonschema:"Calling extension context"`
	URL       []string `json:"url,omitempty" jsonschema:"URLs to open; only the first is used"`
	Left      *int     `json:"left,omitempty"`
	Top       *int     `json:"top,omitempty"`
	Width     *int     `json:"width,omitempty"`
	Height    *int     `json:"height,omitempty"`
	Focused   *bool    `json:"focused,omitempty"`
	Incognito bool     `json:"incognito,omitempty"`
	Type      string   `json:"type,omitempty" jsonschema:"normal, popup, panel, app or devtools"`
	State     string   `json:"state,omitempty" jsonschema:"normal, minimized, maximized or fullscreen"`
}

// UpdateWindowInput is the input for the windows_update tool.
type UpdateWindowInput struct {
	Context CallerArgs `json:"context,omitempty" jsonschema:"Calling extension context"`
	WindowID int    `json:"window_id" jsonschema:"Window id; -2 names the caller's current window"`
	State    string `json:"state,omitempty" jsonschema:"normal, minimized, maximized or fullscreen"`
}

// RemoveWindowInput is the input for the windows_remove tool.
type RemoveWindowInput struct {
	Context CallerArgs `json:"context,omitempty" jsonschema:"Calling extension context"`
	WindowID *int `json:"window_id,omitempty" jsonschema:"Window id; defaults to the caller's current window"`
}
