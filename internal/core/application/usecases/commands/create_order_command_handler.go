package commands

import (
	"context"
	"fmt"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/pkg/errs"
)

// CreateOrderCommandHandler persists new orders.
// Orders without an explicit status start at the transition table's initial status;
// an explicit status must be declared by the table.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	table      *statemachine.Table
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, table *statemachine.Table) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		table:      table,
	}
}

// Handle creates the order in its own transaction.
// A business key that is already taken surfaces as errs.ValueIsInvalidError from the repository.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	status := cmd.Status()
	if status == order.Unknown {
		status = h.table.Initial()
	}
	if !h.table.Declares(status) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%v is not declared by the transition table", status))
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.BusinessKey(), status)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
