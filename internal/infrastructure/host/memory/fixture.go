package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// Fixture is a YAML description of the windows a memory host starts with.
//
//	screen: {left: 0, top: 0, width: 1920, height: 1080}
//	windows:
//	  - bounds: {left: 10, top: 10, width: 800, height: 600}
//	    state: maximized
//	    focused: true
//	    tabs:
//	      - {url: "https://example.com", title: Example, active: true}
type Fixture struct {
	Screen  *entity.Bounds  `yaml:"screen"`
	Windows []FixtureWindow `yaml:"windows"`
}

// FixtureWindow is one window of a Fixture.
type FixtureWindow struct {
	Bounds         entity.Bounds      `yaml:"bounds"`
	State          entity.WindowState `yaml:"state"`
	Focused        bool               `yaml:"focused"`
	FullScreenable *bool              `yaml:"fullscreenable"`
	AlwaysOnTop    bool               `yaml:"always_on_top"`
	Incognito      bool               `yaml:"incognito"`
	RefuseClose    bool               `yaml:"refuse_close"`
	Tabs           []FixtureTab       `yaml:"tabs"`
}

// FixtureTab is one tab of a FixtureWindow.
type FixtureTab struct {
	URL    string `yaml:"url"`
	Title  string `yaml:"title"`
	Active bool   `yaml:"active"`
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a fixture document.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for i, w := range f.Windows {
		if w.State != "" && !w.State.Valid() {
			return nil, fmt.Errorf("fixture window %d: unknown state %q", i, w.State)
		}
		if w.Bounds.Width < 0 || w.Bounds.Height < 0 {
			return nil, fmt.Errorf("fixture window %d: negative size", i)
		}
	}
	return &f, nil
}

// Apply seeds h with the fixture's windows, without raising events.
func (f *Fixture) Apply(h *Host) []*Window {
	if f.Screen != nil {
		h.mu.Lock()
		h.screen = *f.Screen
		h.mu.Unlock()
	}
	out := make([]*Window, 0, len(f.Windows))
	for _, fw := range f.Windows {
		spec := WindowSpec{
			Bounds:         fw.Bounds,
			Focused:        fw.Focused,
			FullScreenable: fw.FullScreenable == nil || *fw.FullScreenable,
			AlwaysOnTop:    fw.AlwaysOnTop,
			Incognito:      fw.Incognito,
			RefuseClose:    fw.RefuseClose,
		}
		if spec.Bounds.Width == 0 && spec.Bounds.Height == 0 {
			spec.Bounds = defaultBounds
		}
		switch fw.State {
		case entity.WindowStateMinimized:
			spec.Flags.Minimized = true
		case entity.WindowStateMaximized:
			spec.Flags.Maximized = true
		case entity.WindowStateFullscreen:
			spec.Flags.Fullscreen = true
		}
		for _, ft := range fw.Tabs {
			spec.Tabs = append(spec.Tabs, TabSpec(ft))
		}
		out = append(out, h.Seed(spec))
	}
	return out
}
