package entity

import "time"

// JournalEntry is a persisted broadcast event.
type JournalEntry struct {
	ID         int64
	Seq        uint64
	Name       EventName
	WindowID   WindowID
	TabID      TabID
	Payload    string // JSON-encoded listener arguments
	RecordedAt time.Time
}

// JournalFilter narrows a journal listing.
type JournalFilter struct {
	WindowID WindowID // zero or WindowIDNone for all windows
	Limit    int
}
