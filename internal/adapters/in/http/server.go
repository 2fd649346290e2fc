// Package http exposes order creation, status changes and the order listing over REST.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/application/usecases/queries"
	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	createOrderHandler       commands.CreateOrderCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler
	listOrdersHandler        queries.ListOrdersQueryHandler
	logger                   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a server from the command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		listOrdersHandler:        listOrdersHandler,
		logger:                   logger.With("component", "HTTPServer"),
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), queries.NewListOrdersQuery())
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = Order{
			ID:          o.ID.String(),
			BusinessKey: o.BusinessKey.Int(),
			Status:      o.Status.Code(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status := order.Unknown
	if body.Status != nil {
		parsed, err := order.ParseStatus(*body.Status)
		if err != nil {
			return badRequest(ctx, err.Error())
		}
		status = parsed
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), order.BusinessKey(body.BusinessKey), status)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, errs.ErrValueIsInvalid) {
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		}
		s.logger.Error("failed to create order", "businessKey", body.BusinessKey, "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	return ctx.NoContent(http.StatusCreated)
}

// SendOrderEvent handles POST /api/v1/orders/{businessKey}/events.
// A rejected event is a 200 with accepted=false; only failures are errors.
func (s *Server) SendOrderEvent(ctx echo.Context, businessKey int) error {
	var body OrderEvent
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	event, err := order.ParseEvent(body.Event)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewChangeOrderStatusCommand(order.BusinessKey(businessKey), event)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	accepted, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}
	if err != nil {
		s.logger.Error("failed to change order status", "businessKey", businessKey, "event", body.Event, "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to change order status",
		})
	}

	return ctx.JSON(http.StatusOK, TransitionResult{
		BusinessKey: businessKey,
		Event:       event.Code(),
		Accepted:    accepted,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
