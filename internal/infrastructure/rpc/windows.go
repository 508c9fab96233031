package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

type windowResult struct {
	Body struct {
		Result entity.WindowDetails `json:"result"`
	}
}

// optionalWindow is a window descriptor or JSON null. huma rejects the
// nullable tag on struct fields, so the schema is provided here.
type optionalWindow struct {
	*entity.WindowDetails
}

func (o optionalWindow) MarshalJSON() ([]byte, error) {
	if o.WindowDetails == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.WindowDetails)
}

// Schema allows either a WindowDetails object or null.
func (optionalWindow) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		OneOf: []*huma.Schema{
			r.Schema(reflect.TypeOf(entity.WindowDetails{}), true, "WindowDetails"),
			{Type: "null"},
		},
	}
}

type optionalWindowResult struct {
	Body struct {
		Result optionalWindow `json:"result"`
	}
}

type windowListResult struct {
	Body struct {
		Result []entity.WindowDetails `json:"result"`
	}
}

type emptyResult struct {
	Body struct {
		Result any `json:"result" doc:"Always null"`
	}
}

type callerOnlyInput struct {
	CallerHeaders
}

type getWindowInput struct {
	CallerHeaders
	Body struct {
		WindowID int `json:"windowId" doc:"Window id, -2 for the current window"`
	}
}

type createWindowBody struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	URL       any      `json:"url,omitempty" doc:"URL or list of URLs; only the first is opened"`
	Left      *int     `json:"left,omitempty"`
	Top       *int     `json:"top,omitempty"`
	Width     *int     `json:"width,omitempty"`
	Height    *int     `json:"height,omitempty"`
	Focused   *bool    `json:"focused,omitempty"`
	Incognito bool     `json:"incognito,omitempty"`
	Type      string   `json:"type,omitempty"`
	State     string   `json:"state,omitempty"`
}

type createWindowInput struct {
	CallerHeaders
	Body *createWindowBody `required:"false"`
}

type updateInfoBody struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	State string   `json:"state,omitempty" doc:"normal, minimized, maximized or fullscreen"`
}

type updateWindowInput struct {
	CallerHeaders
	Body struct {
		WindowID   int            `json:"windowId"`
		UpdateInfo updateInfoBody `json:"updateInfo"`
	}
}

type removeWindowInput struct {
	CallerHeaders
	Body *struct {
		WindowID *int `json:"windowId,omitempty" doc:"Defaults to the current window"`
	} `required:"false"`
}

func registerWindowHandlers(api huma.API, svc WindowsService) {
	tags := []string{"Windows"}

	huma.Register(api, huma.Operation{OperationID: "windows-get", Method: http.MethodPost, Path: RPCPrefix + "windows.get", Summary: "Get a window", Tags: tags},
		func(ctx context.Context, input *getWindowInput) (*windowResult, error) {
			details, err := svc.Get(ctx, usecase.GetWindowInput{
				Caller:   input.Caller(),
				WindowID: entity.WindowID(input.Body.WindowID),
			})
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &windowResult{}
			out.Body.Result = details
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-get-current", Method: http.MethodPost, Path: RPCPrefix + "windows.getCurrent", Summary: "Get the caller's window", Tags: tags},
		func(ctx context.Context, input *callerOnlyInput) (*optionalWindowResult, error) {
			details, err := svc.GetCurrent(ctx, input.Caller())
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &optionalWindowResult{}
			out.Body.Result = optionalWindow{details}
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-get-last-focused", Method: http.MethodPost, Path: RPCPrefix + "windows.getLastFocused", Summary: "Get the most recently focused window", Tags: tags},
		func(ctx context.Context, input *callerOnlyInput) (*optionalWindowResult, error) {
			details, err := svc.GetLastFocused(ctx, input.Caller())
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &optionalWindowResult{}
			out.Body.Result = optionalWindow{details}
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-get-all", Method: http.MethodPost, Path: RPCPrefix + "windows.getAll", Summary: "List all windows", Tags: tags},
		func(ctx context.Context, input *callerOnlyInput) (*windowListResult, error) {
			all, err := svc.GetAll(ctx, input.Caller())
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &windowListResult{}
			out.Body.Result = all
			if out.Body.Result == nil {
				out.Body.Result = []entity.WindowDetails{}
			}
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-create", Method: http.MethodPost, Path: RPCPrefix + "windows.create", Summary: "Create a window", Tags: tags},
		func(ctx context.Context, input *createWindowInput) (*windowResult, error) {
			data, err := input.Body.toCreateData()
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			details, err := svc.Create(ctx, usecase.CreateWindowInput{Caller: input.Caller(), Data: data})
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &windowResult{}
			out.Body.Result = details
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-update", Method: http.MethodPost, Path: RPCPrefix + "windows.update", Summary: "Update a window's state", Tags: tags},
		func(ctx context.Context, input *updateWindowInput) (*windowResult, error) {
			details, err := svc.Update(ctx, usecase.UpdateWindowInput{
				Caller:   input.Caller(),
				WindowID: entity.WindowID(input.Body.WindowID),
				Info:     entity.UpdateWindowInfo{State: entity.WindowState(input.Body.UpdateInfo.State)},
			})
			if err != nil {
				return nil, mapErr(ctx, err)
			}
			out := &windowResult{}
			out.Body.Result = details
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "windows-remove", Method: http.MethodPost, Path: RPCPrefix + "windows.remove", Summary: "Remove a window", Tags: tags},
		func(ctx context.Context, input *removeWindowInput) (*emptyResult, error) {
			in := usecase.RemoveWindowInput{Caller: input.Caller()}
			if input.Body != nil && input.Body.WindowID != nil {
				id := entity.WindowID(*input.Body.WindowID)
				in.WindowID = &id
			}
			if err := svc.Remove(ctx, in); err != nil {
				return nil, mapErr(ctx, err)
			}
			return &emptyResult{}, nil
		})
}

// toCreateData accepts the url field as a string or a list of strings.
func (b *createWindowBody) toCreateData() (entity.CreateWindowData, error) {
	if b == nil {
		return entity.CreateWindowData{}, nil
	}
	data := entity.CreateWindowData{
		Left:      b.Left,
		Top:       b.Top,
		Width:     b.Width,
		Height:    b.Height,
		Focused:   b.Focused,
		Incognito: b.Incognito,
		Type:      entity.WindowType(b.Type),
		State:     entity.WindowState(b.State),
	}
	if b.URL != nil {
		raw, err := json.Marshal(b.URL)
		if err != nil {
			return data, fmt.Errorf("%w: url: %v", entity.ErrInvalidArgument, err)
		}
		if err := json.Unmarshal(raw, &data.URL); err != nil {
			return data, err
		}
	}
	return data, nil
}
