package entity

import "time"

// EventName is the extension-facing name of a broadcast event.
type EventName string

const (
	EventWindowCreated       EventName = "windows.onCreated"
	EventWindowRemoved       EventName = "windows.onRemoved"
	EventWindowFocusChanged  EventName = "windows.onFocusChanged"
	EventWindowUpdated       EventName = "windows.onUpdated"
	EventWindowBoundsChanged EventName = "windows.onBoundsChanged"
	EventTabCreated          EventName = "tabs.onCreated"
	EventTabRemoved          EventName = "tabs.onRemoved"
	EventTabUpdated          EventName = "tabs.onUpdated"
	EventTabActivated        EventName = "tabs.onActivated"
)

// Event is a normalized lifecycle event delivered to subscribers.
// Args are positional listener arguments.
type Event struct {
	Seq       uint64    `json:"seq"`
	Name      EventName `json:"name"`
	Args      []any     `json:"args"`
	WindowID  WindowID  `json:"-"`
	TabID     TabID     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// WindowChange lists the fields changed by a windows.onUpdated event.
type WindowChange struct {
	State   WindowState `json:"state,omitempty"`
	Focused *bool       `json:"focused,omitempty"`
}

// TabChange lists the fields changed by a tabs.onUpdated event.
type TabChange struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// TabRemoveInfo is the second argument of tabs.onRemoved.
type TabRemoveInfo struct {
	WindowID        WindowID `json:"windowId"`
	IsWindowClosing bool     `json:"isWindowClosing"`
}

// TabActiveInfo is the argument of tabs.onActivated.
type TabActiveInfo struct {
	TabID    TabID    `json:"tabId"`
	WindowID WindowID `json:"windowId"`
}
