// Package ports defines the persistence contracts the order lifecycle depends on.
// Adapters in internal/adapters/out implement them; the core never imports an adapter.
package ports

import (
	"context"

	"orderstate/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for orders.
// Orders are addressed by their business key, which is unique across the store.
type OrderRepository interface {
	// Add persists a new order.
	// Returns errs.ValueIsInvalidError when the business key is already taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update saves the status of an existing order.
	// Returns errs.ObjectNotFoundError when no order has the business key.
	Update(ctx context.Context, aggregate *order.Order) error

	// GetByBusinessKey returns the order with key.
	// Returns errs.ObjectNotFoundError when no order has the key.
	GetByBusinessKey(ctx context.Context, key order.BusinessKey) (*order.Order, error)

	// GetAll returns every stored order sorted by business key.
	GetAll(ctx context.Context) ([]*order.Order, error)
}
