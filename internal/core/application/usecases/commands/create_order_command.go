package commands

import (
	"errors"

	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers an order under a business key.
// The status is optional: order.Unknown means "start at the table's initial status".
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), 1001, order.Unknown)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	businessKey order.BusinessKey
	status      order.Status

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identity and business key. A non-zero status must
// belong to the status enumeration.
func NewCreateOrderCommand(orderID kernel.UUID, businessKey order.BusinessKey, status order.Status) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBusinessKey(businessKey),
		cmd.setStatus(status),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identity of the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BusinessKey returns the external order number.
func (c CreateOrderCommand) BusinessKey() order.BusinessKey {
	return c.businessKey
}

// Status returns the requested status, or order.Unknown when the default applies.
func (c CreateOrderCommand) Status() order.Status {
	return c.status
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBusinessKey(key order.BusinessKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	c.businessKey = key
	return nil
}

func (c *CreateOrderCommand) setStatus(status order.Status) error {
	if status == order.Unknown {
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
