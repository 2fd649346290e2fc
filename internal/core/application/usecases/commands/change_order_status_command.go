package commands

import (
	"errors"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand delivers a business event to the order with the given key.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(1001, order.Payed)
//	accepted, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no order 1001
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	businessKey order.BusinessKey
	event       order.Event

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand validates the business key and the event.
func NewChangeOrderStatusCommand(businessKey order.BusinessKey, event order.Event) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBusinessKey(businessKey),
		cmd.setEvent(event),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) BusinessKey() order.BusinessKey {
	return c.businessKey
}

func (c ChangeOrderStatusCommand) Event() order.Event {
	return c.event
}

func (c *ChangeOrderStatusCommand) setBusinessKey(key order.BusinessKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	c.businessKey = key
	return nil
}

func (c *ChangeOrderStatusCommand) setEvent(event order.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	c.event = event
	return nil
}
