// Package rpc exposes the windows API over HTTP and streams lifecycle
// events over a WebSocket.
package rpc

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/eventbus"
	"github.com/bnema/tabbridge/internal/logging"
)

// WindowsService is the windows.* API consumed by the transport.
type WindowsService interface {
	Get(ctx context.Context, input usecase.GetWindowInput) (entity.WindowDetails, error)
	GetCurrent(ctx context.Context, caller entity.Caller) (*entity.WindowDetails, error)
	GetLastFocused(ctx context.Context, caller entity.Caller) (*entity.WindowDetails, error)
	GetAll(ctx context.Context, caller entity.Caller) ([]entity.WindowDetails, error)
	Create(ctx context.Context, input usecase.CreateWindowInput) (entity.WindowDetails, error)
	Update(ctx context.Context, input usecase.UpdateWindowInput) (entity.WindowDetails, error)
	Remove(ctx context.Context, input usecase.RemoveWindowInput) error
}

// EventSource hands out event subscriptions.
type EventSource interface {
	Subscribe(extensionID string) (*eventbus.Subscription, func())
}

const (
	// APIVersion is reported in the OpenAPI document.
	APIVersion = "1.0.0"

	// RPCPrefix prefixes every windows.* operation path.
	RPCPrefix = "/api/v1/rpc/"
	// EventsPath upgrades to the event stream.
	EventsPath = "/api/v1/events"
)

// NewServer builds the HTTP handler. ctx carries the base logger and ends
// open event streams when cancelled.
func NewServer(ctx context.Context, svc WindowsService, events EventSource) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(withLogger(ctx))
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("tabbridge windows API", APIVersion)
	api := humachi.New(router, cfg)

	registerHealthHandlers(api)
	registerWindowHandlers(api, svc)

	router.Handle(EventsPath, newEventStream(ctx, events))

	return router
}

func registerHealthHandlers(api huma.API) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/healthz", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})
}

// mapErr converts use case errors into HTTP problems by error kind.
func mapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	kind := entity.ErrorKind(err)
	switch kind {
	case entity.KindInvalidArgument:
		return huma.Error400BadRequest(err.Error())
	case entity.KindHostFailure:
		logging.FromContext(ctx).Warn().Err(err).Msg("host refused operation")
		return huma.Error502BadGateway(err.Error())
	case entity.KindNotFound:
		return huma.Error404NotFound(err.Error())
	default:
		logging.FromContext(ctx).Error().Err(err).Str("kind", kind).Msg("rpc failed")
		return huma.Error500InternalServerError(err.Error())
	}
}
