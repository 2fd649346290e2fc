package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "orderstate/internal/core/domain/services"

// PersistStateHandler applies events to entities whose state lives in storage.
//
// For every request the handler rehydrates its engine with the status the caller
// last read from storage, sends the event and lets the registered listeners
// persist the accepted transition. The engine is reused across requests, so the
// whole stop, reset, start, send sequence runs under a mutex.
//
// Only the first region's status is persisted. Additional regions are evaluated
// and may veto through the engine, but their transitions are not forwarded to
// the listeners.
//
// Example usage:
//
//	engine, _ := statemachine.NewEngine(table)
//	handler, _ := services.NewPersistStateHandler(engine, logger)
//	handler.AddPersistStateChangeListener(persistListener)
//
//	accepted, err := handler.HandleEventWithState(ctx,
//	    statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001},
//	    order.WaitPayment)
//	if err != nil {
//	    // Reset, lifecycle or listener failure
//	}
//	if !accepted {
//	    // No rule for (WAIT_PAYMENT, PAYED); nothing was persisted
//	}
type PersistStateHandler struct {
	mu        sync.Mutex
	engine    *statemachine.Engine
	listeners *compositeListener
	primary   bool
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewPersistStateHandler wraps engine and registers the interceptor that
// forwards accepted transitions to the listeners.
//
// Parameters:
//   - engine: the engine to drive; the handler becomes its only user
//   - logger: structured logger, annotated with the component name
//
// Returns:
//   - *PersistStateHandler: a handler without listeners
//   - error: ValueIsRequiredError if engine or logger is nil
func NewPersistStateHandler(engine *statemachine.Engine, logger *slog.Logger) (*PersistStateHandler, error) {
	if engine == nil {
		return nil, errs.NewValueIsRequiredError("engine")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	h := &PersistStateHandler{
		engine:    engine,
		listeners: &compositeListener{},
		tracer:    otel.Tracer(tracerName),
		logger:    logger.With("component", "PersistStateHandler"),
	}
	engine.AddInterceptor(statemachine.InterceptorFunc(h.preStateChange))

	return h, nil
}

// AddPersistStateChangeListener registers listener. Listeners run in reverse
// registration order; registering the same listener twice runs it twice.
func (h *PersistStateHandler) AddPersistStateChangeListener(listener PersistStateChangeListener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners.register(listener)
}

// HandleEventWithState resets the engine to lastKnownStatus and sends req.
//
// Returns:
//   - bool: true when the first region had a matching rule and every listener succeeded
//   - error: ResetError when lastKnownStatus is unusable (the engine stays stopped),
//     ListenerError when a listener failed (the engine keeps lastKnownStatus),
//     or a lifecycle error from the engine
func (h *PersistStateHandler) HandleEventWithState(
	ctx context.Context,
	req statemachine.EventRequest,
	lastKnownStatus order.Status,
) (bool, error) {
	ctx, span := h.tracer.Start(ctx, "statemachine.handle_event", trace.WithAttributes(
		attribute.Int("order.business_key", req.BusinessKey.Int()),
		attribute.String("order.event", req.Event.Code()),
		attribute.String("order.status", lastKnownStatus.Code()),
	))
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	accepted, err := h.handle(ctx, req, lastKnownStatus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Error("event handling failed",
			"businessKey", req.BusinessKey.Int(),
			"event", req.Event.Code(),
			"status", lastKnownStatus.Code(),
			"error", err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("statemachine.accepted", accepted))
	if !accepted {
		h.logger.Info("event rejected",
			"businessKey", req.BusinessKey.Int(),
			"event", req.Event.Code(),
			"status", lastKnownStatus.Code())
	}
	return accepted, nil
}

func (h *PersistStateHandler) handle(ctx context.Context, req statemachine.EventRequest, status order.Status) (bool, error) {
	if err := h.engine.Stop(); err != nil {
		return false, fmt.Errorf("stop state machine: %w", err)
	}
	if err := h.engine.Reset(status); err != nil {
		return false, err
	}
	if err := h.engine.Start(); err != nil {
		return false, fmt.Errorf("start state machine: %w", err)
	}
	h.primary = false
	if _, err := h.engine.Send(ctx, req); err != nil {
		return false, err
	}
	return h.primary, nil
}

func (h *PersistStateHandler) preStateChange(ctx context.Context, sc statemachine.StateContext) error {
	if sc.Transition.Region != 0 {
		h.logger.Debug("region transition not persisted",
			"businessKey", sc.Request.BusinessKey.Int(),
			"transition", sc.Transition.Rule.String(),
			"region", sc.Transition.Region)
		return nil
	}
	h.primary = true

	h.logger.Debug("persisting transition",
		"businessKey", sc.Request.BusinessKey.Int(),
		"transition", sc.Transition.Rule.String(),
		"region", sc.Transition.Region,
		"listeners", h.listeners.len())

	return h.listeners.OnPersist(ctx, StateChange{
		State:      sc.Transition.Target,
		Request:    sc.Request,
		Transition: sc.Transition,
		Engine:     sc.Engine,
	})
}
