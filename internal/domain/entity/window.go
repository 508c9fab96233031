package entity

import (
	"encoding/json"
	"fmt"
)

// WindowState is the externally visible window state.
type WindowState string

const (
	WindowStateNormal     WindowState = "normal"
	WindowStateMinimized  WindowState = "minimized"
	WindowStateMaximized  WindowState = "maximized"
	WindowStateFullscreen WindowState = "fullscreen"
)

// Valid reports whether s is one of the four known states.
func (s WindowState) Valid() bool {
	switch s {
	case WindowStateNormal, WindowStateMinimized, WindowStateMaximized, WindowStateFullscreen:
		return true
	}
	return false
}

// WindowFlags are the raw host flags a state is derived from.
type WindowFlags struct {
	Minimized  bool
	Maximized  bool
	Fullscreen bool
}

// DeriveWindowState maps host flags to exactly one state.
// Precedence: fullscreen > maximized > minimized > normal.
func DeriveWindowState(f WindowFlags) WindowState {
	switch {
	case f.Fullscreen:
		return WindowStateFullscreen
	case f.Maximized:
		return WindowStateMaximized
	case f.Minimized:
		return WindowStateMinimized
	default:
		return WindowStateNormal
	}
}

// WindowType classifies a window the way extension APIs expect.
type WindowType string

const (
	WindowTypeNormal   WindowType = "normal"
	WindowTypePopup    WindowType = "popup"
	WindowTypePanel    WindowType = "panel"
	WindowTypeApp      WindowType = "app"
	WindowTypeDevTools WindowType = "devtools"
)

// Valid reports whether t is a known window type.
func (t WindowType) Valid() bool {
	switch t {
	case WindowTypeNormal, WindowTypePopup, WindowTypePanel, WindowTypeApp, WindowTypeDevTools:
		return true
	}
	return false
}

// DefaultSessionID is used when the host policy supplies no session tag.
const DefaultSessionID = "default"

// Bounds is a window's screen geometry.
type Bounds struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// WindowDetails is the descriptor returned to extension callers.
// A value whose ID is WindowIDNone marshals as the {"id":-1} stub.
type WindowDetails struct {
	ID          WindowID     `json:"id"`
	Focused     bool         `json:"focused"`
	Top         int          `json:"top"`
	Left        int          `json:"left"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Tabs        []TabDetails `json:"tabs"`
	Incognito   bool         `json:"incognito"`
	Type        WindowType   `json:"type"`
	State       WindowState  `json:"state"`
	AlwaysOnTop bool         `json:"alwaysOnTop"`
	SessionID   string       `json:"sessionId"`
}

// NoWindow returns the stub descriptor for an unresolved window.
func NoWindow() WindowDetails {
	return WindowDetails{ID: WindowIDNone}
}

// IsStub reports whether d is the unresolved-window stub.
func (d WindowDetails) IsStub() bool {
	return d.ID == WindowIDNone
}

// Bounds returns the geometry part of the descriptor.
func (d WindowDetails) Bounds() Bounds {
	return Bounds{Left: d.Left, Top: d.Top, Width: d.Width, Height: d.Height}
}

// SetBounds overwrites the geometry part of the descriptor.
func (d *WindowDetails) SetBounds(b Bounds) {
	d.Left, d.Top, d.Width, d.Height = b.Left, b.Top, b.Width, b.Height
}

// Clone returns a deep copy so callers never share the cached tab slice.
func (d WindowDetails) Clone() WindowDetails {
	out := d
	if d.Tabs != nil {
		out.Tabs = make([]TabDetails, len(d.Tabs))
		for i := range d.Tabs {
			out.Tabs[i] = d.Tabs[i].Clone()
		}
	}
	return out
}

// MarshalJSON emits the stub form for unresolved windows.
func (d WindowDetails) MarshalJSON() ([]byte, error) {
	if d.IsStub() {
		return []byte(fmt.Sprintf(`{"id":%d}`, WindowIDNone)), nil
	}
	type plain WindowDetails
	p := plain(d)
	if p.Tabs == nil {
		p.Tabs = []TabDetails{}
	}
	return json.Marshal(p)
}

// URLList accepts either a single URL string or a list of URLs.
type URLList []string

// UnmarshalJSON accepts "url" and ["url", ...].
func (l *URLList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
			return nil
		}
		*l = URLList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("%w: url must be a string or a list of strings", ErrInvalidArgument)
	}
	*l = many
	return nil
}

// First returns the first URL or the empty string.
func (l URLList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// CreateWindowData is the input of windows.create.
type CreateWindowData struct {
	URL       URLList     `json:"url,omitempty"`
	Left      *int        `json:"left,omitempty"`
	Top       *int        `json:"top,omitempty"`
	Width     *int        `json:"width,omitempty"`
	Height    *int        `json:"height,omitempty"`
	Focused   *bool       `json:"focused,omitempty"`
	Incognito bool        `json:"incognito,omitempty"`
	Type      WindowType  `json:"type,omitempty"`
	State     WindowState `json:"state,omitempty"`
}

// Validate rejects malformed creation data.
func (c CreateWindowData) Validate() error {
	if c.Width != nil && *c.Width < 0 {
		return fmt.Errorf("%w: width must not be negative", ErrInvalidArgument)
	}
	if c.Height != nil && *c.Height < 0 {
		return fmt.Errorf("%w: height must not be negative", ErrInvalidArgument)
	}
	if c.Type != "" && !c.Type.Valid() {
		return fmt.Errorf("%w: unknown window type %q", ErrInvalidArgument, c.Type)
	}
	if c.State != "" && !c.State.Valid() {
		return fmt.Errorf("%w: unknown window state %q", ErrInvalidArgument, c.State)
	}
	return nil
}

// UpdateWindowInfo is the input of windows.update. Only State is acted on;
// any other property is ignored.
type UpdateWindowInfo struct {
	State WindowState `json:"state,omitempty"`
}

// Validate rejects unknown state values.
func (u UpdateWindowInfo) Validate() error {
	if u.State != "" && !u.State.Valid() {
		return fmt.Errorf("%w: unknown window state %q", ErrInvalidArgument, u.State)
	}
	return nil
}
