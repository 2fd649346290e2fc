// Package commands contains business operations that modify system state.
// Every command follows the same pattern: constructor validation, a unit of work
// for persistence, and a handler that orchestrates the domain.
package commands

import (
	"context"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderEventHandler applies an event to an order whose status was read from storage.
	// It is satisfied by services.PersistStateHandler.
	OrderEventHandler interface {
		HandleEventWithState(ctx context.Context, req statemachine.EventRequest, lastKnownStatus order.Status) (bool, error)
	}
)
