package commands

import (
	"context"

	"orderstate/internal/core/domain/statemachine"
)

// ChangeOrderStatusCommandHandler loads the persisted status of an order and
// hands the event to the state machine handler. Persisting the new status is
// the job of the handler's listeners, not of this command.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, persistHandler)
//	cmd, _ := NewChangeOrderStatusCommand(1001, order.Payed)
//	accepted, err := handler.Handle(ctx, cmd)
//	switch {
//	case err != nil:
//	    // not found, reset or listener failure
//	case !accepted:
//	    // the current status has no rule for the event
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory   OrderUoWFactory
	eventHandler OrderEventHandler
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	eventHandler OrderEventHandler,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:   uowFactory,
		eventHandler: eventHandler,
	}
}

// Handle returns true when the event was accepted and persisted, false when the
// order's current status has no rule for it. A missing order is errs.ObjectNotFoundError.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	o, err := h.uowFactory.Create().OrderRepository().GetByBusinessKey(ctx, cmd.BusinessKey())
	if err != nil {
		return false, err
	}

	return h.eventHandler.HandleEventWithState(ctx, statemachine.EventRequest{
		Event:       cmd.Event(),
		BusinessKey: o.BusinessKey(),
	}, o.Status())
}
