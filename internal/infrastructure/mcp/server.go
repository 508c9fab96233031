// Package mcp exposes the windows API as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/logging"
)

const ServerName = "tabbridge"

// WindowsService is the windows.* API served as tools.
type WindowsService interface {
	Get(ctx context.Context, input usecase.GetWindowInput) (entity.WindowDetails, error)
	GetCurrent(ctx context.Context, caller entity.Caller) (*entity.WindowDetails, error)
	GetLastFocused(ctx context.Context, caller entity.Caller) (*entity.WindowDetails, error)
	GetAll(ctx context.Context, caller entity.Caller) ([]entity.WindowDetails, error)
	Create(ctx context.Context, input usecase.CreateWindowInput) (entity.WindowDetails, error)
	Update(ctx context.Context, input usecase.UpdateWindowInput) (entity.WindowDetails, error)
	Remove(ctx context.Context, input usecase.RemoveWindowInput) error
}

// Server is the MCP server for the windows API.
type Server struct {
	mcpServer *mcpsdk.Server
	windows   WindowsService
}

// NewServer creates an MCP server backed by windows.
func NewServer(windows WindowsService, version string) *Server {
	s := &Server{windows: windows}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logging.FromContext(ctx).Info().Msg("mcp server listening on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session over transport. Used by tests.
func (s *Server) Connect(ctx context.Context, transport mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, transport, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_get",
		Description: "Get one window with its tabs. Unknown ids return {\"id\":-1}. Pass -2 for the caller's current window.",
	}, s.handleGet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_get_current",
		Description: "Get the window hosting the caller. Returns null for background callers.",
	}, s.handleGetCurrent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_get_last_focused",
		Description: "Get the most recently focused window, or null.",
	}, s.handleGetLastFocused)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_get_all",
		Description: "List every open window in creation order.",
	}, s.handleGetAll)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_create",
		Description: "Open a new window. Relative URLs resolve against extension_url.",
	}, s.handleCreate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_update",
		Description: "Change a window's state (normal, minimized, maximized, fullscreen) and return its refreshed details.",
	}, s.handleUpdate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_remove",
		Description: "Close a window. Unknown ids are ignored.",
	}, s.handleRemove)
}

func (s *Server) handleGet(ctx context.Context, _ *mcpsdk.CallToolRequest, args GetWindowInput) (*mcpsdk.CallToolResult, any, error) {
	d, err := s.windows.Get(ctx, usecase.GetWindowInput{Caller: args.Context.Caller(), WindowID: entity.WindowID(args.WindowID)})
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleGetCurrent(ctx context.Context, _ *mcpsdk.CallToolRequest, args CallerInput) (*mcpsdk.CallToolResult, any, error) {
	d, err := s.windows.GetCurrent(ctx, args.Context.Caller())
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleGetLastFocused(ctx context.Context, _ *mcpsdk.CallToolRequest, args CallerInput) (*mcpsdk.CallToolResult, any, error) {
	d, err := s.windows.GetLastFocused(ctx, args.Context.Caller())
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleGetAll(ctx context.Context, _ *mcpsdk.CallToolRequest, args CallerInput) (*mcpsdk.CallToolResult, any, error) {
	all, err := s.windows.GetAll(ctx, args.Context.Caller())
	if err != nil {
		return nil, nil, err
	}
	if all == nil {
		all = []entity.WindowDetails{}
	}
	return jsonResult(all)
}

func (s *Server) handleCreate(ctx context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, any, error) {
	d, err := s.windows.Create(ctx, usecase.CreateWindowInput{
		Caller: args.Context.Caller(),
		Data: entity.CreateWindowData{
			URL:       entity.URLList(args.URL),
			Left:      args.Left,
			Top:       args.Top,
			Width:     args.Width,
			Height:    args.Height,
			Focused:   args.Focused,
			Incognito: args.Incognito,
			Type:      entity.WindowType(args.Type),
			State:     entity.WindowState(args.State),
		},
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(d)
}

func (s *Server) handleUpdate(ctx context.Context, _ *mcpsdk.CallToolRequest, args UpdateWindowInput) (*mcpsdk.CallToolResult, any, error) {
	d, err := s.windows.Update(ctx, usecase.UpdateWindowInput{
		Caller:   args.Context.Caller(),
		WindowID: entity.WindowID(args.WindowID),
		Info:     entity.UpdateWindowInfo{State: entity.WindowState(args.State)},
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(d)
}

func (s *Server) handleRemove(ctx context.Context, _ *mcpsdk.CallToolRequest, args RemoveWindowInput) (*mcpsdk.CallToolResult, any, error) {
	in := usecase.RemoveWindowInput{Caller: args.Context.Caller()}
	if args.WindowID != nil {
		id := entity.WindowID(*args.WindowID)
		in.WindowID = &id
	}
	if err := s.windows.Remove(ctx, in); err != nil {
		return nil, nil, toolError(err)
	}
	return textResult("null"), nil, nil
}

func jsonResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

// toolError prefixes the stable error kind so agents can branch on it.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", entity.ErrorKind(err), err)
}
