package entity

import (
	"encoding/json"
	"maps"
)

// TabDetails describes a tab to extension callers.
// Extra holds fields appended by the embedding host; they are flattened
// into the JSON object and never override the core fields.
type TabDetails struct {
	ID       TabID    `json:"id"`
	WindowID WindowID `json:"windowId"`
	Index    int      `json:"index"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Active   bool     `json:"active"`
	Selected bool     `json:"selected"`

	Extra map[string]any `json:"-"`
}

// Clone returns a copy that does not share Extra with d.
func (d TabDetails) Clone() TabDetails {
	out := d
	if d.Extra != nil {
		out.Extra = maps.Clone(d.Extra)
	}
	return out
}

// MarshalJSON flattens Extra next to the core fields.
func (d TabDetails) MarshalJSON() ([]byte, error) {
	type plain TabDetails
	if len(d.Extra) == 0 {
		return json.Marshal(plain(d))
	}
	core, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(d.Extra)+7)
	for k, v := range d.Extra {
		merged[k] = v
	}
	var fields map[string]any
	if err := json.Unmarshal(core, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// TabInfo is the live host-side view of a tab used to build TabDetails.
type TabInfo struct {
	URL    string
	Title  string
	Active bool
}
