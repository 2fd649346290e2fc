package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiDocument []byte

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	BusinessKey int     `json:"businessKey"`
	Status      *string `json:"status,omitempty"`
}

// OrderEvent is the body of POST /api/v1/orders/{businessKey}/events.
type OrderEvent struct {
	Event string `json:"event"`
}

// Order is one element of GET /api/v1/orders.
type Order struct {
	ID          string `json:"id"`
	BusinessKey int    `json:"businessKey"`
	Status      string `json:"status"`
}

// TransitionResult reports whether an event changed the order's status.
type TransitionResult struct {
	BusinessKey int    `json:"businessKey"`
	Event       string `json:"event"`
	Accepted    bool   `json:"accepted"`
}

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	Health(ctx echo.Context) error
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context) error
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (POST /api/v1/orders/{businessKey}/events)
	SendOrderEvent(ctx echo.Context, businessKey int) error
}

// ServerInterfaceWrapper binds path parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SendOrderEvent(ctx echo.Context) error {
	var businessKey int

	err := runtime.BindStyledParameterWithOptions("simple", "businessKey", ctx.Param("businessKey"), &businessKey,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter businessKey: %s", err))
	}

	return w.Handler.SendOrderEvent(ctx, businessKey)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the API operations on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/health", si.Health)
	router.GET("/api/v1/orders", si.ListOrders)
	router.POST("/api/v1/orders", si.CreateOrder)
	router.POST("/api/v1/orders/:businessKey/events", wrapper.SendOrderEvent)
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return spec, nil
}

// swaggerDoc serves the OpenAPI document, as JSON, to the swagger UI.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var registerDocOnce sync.Once

// registerSwaggerDoc publishes spec under swag's default instance name.
// swag panics on duplicate registration, so only the first call wins.
func registerSwaggerDoc(spec *openapi3.T) error {
	data, err := spec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(data)})
	})
	return nil
}
