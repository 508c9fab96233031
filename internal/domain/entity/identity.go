// Package entity defines domain entities for the extension window bridge.
package entity

import "strconv"

// WindowID identifies a host window for the lifetime of the underlying object.
// Positive values are issued by the registry; negative values are sentinels.
type WindowID int

// TabID identifies a host tab for the lifetime of the underlying object.
type TabID int

const (
	// WindowIDNone names no window.
	WindowIDNone WindowID = -1
	// WindowIDCurrent is resolved against the calling context and never stored.
	WindowIDCurrent WindowID = -2
)

// TabIDNone names no tab.
const TabIDNone TabID = -1

// IsNone reports whether id is the NONE sentinel.
func (id WindowID) IsNone() bool { return id == WindowIDNone }

// IsCurrent reports whether id is the CURRENT sentinel.
func (id WindowID) IsCurrent() bool { return id == WindowIDCurrent }

// Valid reports whether id can name a registered window.
func (id WindowID) Valid() bool { return id > 0 }

func (id WindowID) String() string {
	switch id {
	case WindowIDNone:
		return "none"
	case WindowIDCurrent:
		return "current"
	}
	return strconv.Itoa(int(id))
}

// IsNone reports whether id is the NONE sentinel.
func (id TabID) IsNone() bool { return id == TabIDNone }

// IsCurrent is always false; tabs have no context-relative sentinel.
func (id TabID) IsCurrent() bool { return false }

// Valid reports whether id can name a registered tab.
func (id TabID) Valid() bool { return id > 0 }

func (id TabID) String() string {
	if id == TabIDNone {
		return "none"
	}
	return strconv.Itoa(int(id))
}
