// Package queries contains read-only operations over persisted orders.
package queries

import (
	"errors"
	"fmt"
	"strings"

	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery retrieves every stored order with its current status.
//
// Example:
//
//	query := NewListOrdersQuery()
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
//	fmt.Println(FormatOrders(orders))
//	// Order{orderId=1001, status=WAIT_DELIVER},Order{orderId=1002, status=FINISH}
type ListOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a parameterless listing query.
func NewListOrdersQuery() ListOrdersQuery {
	return ListOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// ListOrdersQueryResponse is one row of the listing.
type ListOrdersQueryResponse struct {
	ID          kernel.UUID
	BusinessKey order.BusinessKey
	Status      order.Status
}

func (r ListOrdersQueryResponse) String() string {
	return fmt.Sprintf("Order{orderId=%d, status=%s}", r.BusinessKey, r.Status.Code())
}

// FormatOrders joins the rows with commas. An empty listing is an empty string.
func FormatOrders(orders []ListOrdersQueryResponse) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ",")
}
