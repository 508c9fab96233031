package entity

// CallerKind says where an RPC call originated.
type CallerKind string

const (
	// CallerBackground is an extension's background logic. It has no
	// natural current window.
	CallerBackground CallerKind = "background"
	// CallerContentScript runs inside a tab of a host window.
	CallerContentScript CallerKind = "content_script"
	// CallerExtensionPage is an extension UI page hosted in a window.
	CallerExtensionPage CallerKind = "extension_page"
)

// Valid reports whether k is a known caller kind.
func (k CallerKind) Valid() bool {
	switch k {
	case CallerBackground, CallerContentScript, CallerExtensionPage:
		return true
	}
	return false
}

// Caller describes the extension context issuing a call.
type Caller struct {
	ExtensionID  string
	ExtensionURL string
	Kind         CallerKind
	WindowID     WindowID // window hosting the calling frame, WindowIDNone if none
	TabID        TabID
}

// BackgroundCaller returns a caller for an extension's background logic.
func BackgroundCaller(extensionID, extensionURL string) Caller {
	return Caller{
		ExtensionID:  extensionID,
		ExtensionURL: extensionURL,
		Kind:         CallerBackground,
		WindowID:     WindowIDNone,
		TabID:        TabIDNone,
	}
}

// WindowBound reports whether the caller runs inside a window.
func (c Caller) WindowBound() bool {
	return c.Kind != CallerBackground && c.WindowID.Valid()
}
