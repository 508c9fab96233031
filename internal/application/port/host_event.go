package port

// HostEventKind tags a host lifecycle notification.
type HostEventKind int

const (
	HostWindowAdded HostEventKind = iota
	HostWindowFocused
	HostWindowBlurred
	HostWindowMinimized
	HostWindowMaximized
	HostWindowUnmaximized
	HostWindowRestored
	HostWindowMoved
	HostWindowResized
	HostWindowEnterFullScreen
	HostWindowLeaveFullScreen
	HostWindowEnterHTMLFullScreen
	HostWindowLeaveHTMLFullScreen
	HostWindowClosed
	HostTabAdded
	HostTabRemoved
	HostTabUpdated
	HostTabActivated
)

var hostEventKindNames = [...]string{
	"window-added",
	"window-focused",
	"window-blurred",
	"window-minimized",
	"window-maximized",
	"window-unmaximized",
	"window-restored",
	"window-moved",
	"window-resized",
	"window-enter-fullscreen",
	"window-leave-fullscreen",
	"window-enter-html-fullscreen",
	"window-leave-html-fullscreen",
	"window-closed",
	"tab-added",
	"tab-removed",
	"tab-updated",
	"tab-activated",
}

func (k HostEventKind) String() string {
	if k < 0 || int(k) >= len(hostEventKindNames) {
		return "unknown"
	}
	return hostEventKindNames[k]
}

// HostEvent is one tagged notification from the host.
// Window is always set. Tab is set for tab events; for HostTabRemoved,
// Window is the tab's former owner.
type HostEvent struct {
	Kind   HostEventKind
	Window HostWindow
	Tab    HostTab
}
