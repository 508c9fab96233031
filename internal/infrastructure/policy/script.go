package policy

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

// Script is a policy defined by a JavaScript file. The file may define any of
//
//	resolveCurrentWindow(caller, lastFocused) -> id | null
//	resolveWindowById(caller, id)             -> id | null
//	windowType(window)                        -> "normal" | "popup" | ...
//	sessionId(window)                         -> string
//	assignTabDetails(tab)                     -> object of extra fields
//
// Functions it does not define, and calls that throw, fall back to Default.
type Script struct {
	Default

	name string
	log  zerolog.Logger

	mu sync.Mutex
	vm *sobek.Runtime

	resolveCurrent sobek.Callable
	resolveByID    sobek.Callable
	windowType     sobek.Callable
	sessionID      sobek.Callable
	assignTab      sobek.Callable
}

var _ port.WindowPolicy = (*Script)(nil)

// LoadScript compiles the policy at path.
func LoadScript(ctx context.Context, path string, fallback Default) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy script: %w", err)
	}
	return NewScript(ctx, path, string(src), fallback)
}

// NewScript compiles src. name is used in error messages.
func NewScript(ctx context.Context, name, src string, fallback Default) (*Script, error) {
	prog, err := sobek.Compile(name, src, false)
	if err != nil {
		return nil, fmt.Errorf("compile policy script %s: %w", name, err)
	}

	vm := sobek.New()
	vm.SetFieldNameMapper(sobek.TagFieldNameMapper("json", true))
	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("run policy script %s: %w", name, err)
	}

	s := &Script{
		Default: fallback,
		name:    name,
		log:     *logging.FromContext(logging.WithComponent(ctx, "policy")),
		vm:      vm,
	}
	s.resolveCurrent = s.lookup("resolveCurrentWindow")
	s.resolveByID = s.lookup("resolveWindowById")
	s.windowType = s.lookup("windowType")
	s.sessionID = s.lookup("sessionId")
	s.assignTab = s.lookup("assignTabDetails")
	return s, nil
}

func (s *Script) lookup(fn string) sobek.Callable {
	v := s.vm.Get(fn)
	if v == nil || sobek.IsUndefined(v) || sobek.IsNull(v) {
		return nil
	}
	call, ok := sobek.AssertFunction(v)
	if !ok {
		s.log.Warn().Str("script", s.name).Str("function", fn).Msg("policy export is not a function, ignored")
		return nil
	}
	return call
}

// Defines reports which hooks the script provides.
func (s *Script) Defines() []string {
	var out []string
	for name, fn := range map[string]sobek.Callable{
		"resolveCurrentWindow": s.resolveCurrent,
		"resolveWindowById":    s.resolveByID,
		"windowType":           s.windowType,
		"sessionId":            s.sessionID,
		"assignTabDetails":     s.assignTab,
	} {
		if fn != nil {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// call runs fn with args converted by the runtime. Errors are logged.
func (s *Script) call(name string, fn sobek.Callable, args ...any) (sobek.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vals := make([]sobek.Value, len(args))
	for i, a := range args {
		vals[i] = s.vm.ToValue(a)
	}
	v, err := fn(sobek.Undefined(), vals...)
	if err != nil {
		s.log.Warn().Err(err).Str("script", s.name).Str("function", name).Msg("policy call failed, using default")
		return nil, false
	}
	if v == nil || sobek.IsUndefined(v) || sobek.IsNull(v) {
		return nil, false
	}
	return v, true
}

type scriptCaller struct {
	ExtensionID  string `json:"extensionId"`
	ExtensionURL string `json:"extensionUrl"`
	Kind         string `json:"kind"`
	WindowID     int    `json:"windowId"`
	TabID        int    `json:"tabId"`
}

func toScriptCaller(c entity.Caller) scriptCaller {
	return scriptCaller{
		ExtensionID:  c.ExtensionID,
		ExtensionURL: c.ExtensionURL,
		Kind:         string(c.Kind),
		WindowID:     int(c.WindowID),
		TabID:        int(c.TabID),
	}
}

type scriptWindow struct {
	Handle      uint64 `json:"handle"`
	Left        int    `json:"left"`
	Top         int    `json:"top"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Minimized   bool   `json:"minimized"`
	Maximized   bool   `json:"maximized"`
	Fullscreen  bool   `json:"fullscreen"`
	Focused     bool   `json:"focused"`
	Incognito   bool   `json:"incognito"`
	AlwaysOnTop bool   `json:"alwaysOnTop"`
}

func toScriptWindow(w port.HostWindow) scriptWindow {
	b := w.Bounds()
	f := w.Flags()
	return scriptWindow{
		Handle:      w.Handle(),
		Left:        b.Left,
		Top:         b.Top,
		Width:       b.Width,
		Height:      b.Height,
		Minimized:   f.Minimized,
		Maximized:   f.Maximized,
		Fullscreen:  f.Fullscreen,
		Focused:     w.IsFocused(),
		Incognito:   w.IsIncognito(),
		AlwaysOnTop: w.IsAlwaysOnTop(),
	}
}

func (s *Script) ResolveCurrentWindow(ctx context.Context, caller entity.Caller, lastFocused entity.WindowID) (entity.WindowID, bool) {
	if s.resolveCurrent == nil {
		return s.Default.ResolveCurrentWindow(ctx, caller, lastFocused)
	}
	v, ok := s.call("resolveCurrentWindow", s.resolveCurrent, toScriptCaller(caller), int(lastFocused))
	if !ok {
		return entity.WindowIDNone, false
	}
	id := entity.WindowID(v.ToInteger())
	return id, id.Valid()
}

func (s *Script) ResolveWindowByID(ctx context.Context, caller entity.Caller, id entity.WindowID) (entity.WindowID, bool) {
	if s.resolveByID == nil {
		return s.Default.ResolveWindowByID(ctx, caller, id)
	}
	v, ok := s.call("resolveWindowById", s.resolveByID, toScriptCaller(caller), int(id))
	if !ok {
		return id, false
	}
	mapped := entity.WindowID(v.ToInteger())
	return mapped, mapped.Valid()
}

func (s *Script) WindowType(w port.HostWindow) entity.WindowType {
	if s.windowType == nil {
		return s.Default.WindowType(w)
	}
	v, ok := s.call("windowType", s.windowType, toScriptWindow(w))
	if !ok {
		return s.Default.WindowType(w)
	}
	t := entity.WindowType(v.String())
	if !t.Valid() {
		s.log.Warn().Str("script", s.name).Str("type", string(t)).Msg("unknown window type from policy")
		return s.Default.WindowType(w)
	}
	return t
}

func (s *Script) SessionID(w port.HostWindow) string {
	if s.sessionID == nil {
		return s.Default.SessionID(w)
	}
	v, ok := s.call("sessionId", s.sessionID, toScriptWindow(w))
	if !ok || v.String() == "" {
		return s.Default.SessionID(w)
	}
	return v.String()
}

func (s *Script) AssignTabDetails(d *entity.TabDetails, t port.HostTab) {
	if s.assignTab == nil {
		s.Default.AssignTabDetails(d, t)
		return
	}
	tab := map[string]any{
		"id":       int(d.ID),
		"windowId": int(d.WindowID),
		"index":    d.Index,
		"url":      d.URL,
		"title":    d.Title,
		"active":   d.Active,
		"handle":   t.Handle(),
	}
	v, ok := s.call("assignTabDetails", s.assignTab, tab)
	if !ok {
		return
	}
	extra, ok := v.Export().(map[string]any)
	if !ok || len(extra) == 0 {
		return
	}
	if d.Extra == nil {
		d.Extra = make(map[string]any, len(extra))
	}
	for k, val := range extra {
		d.Extra[k] = val
	}
}
