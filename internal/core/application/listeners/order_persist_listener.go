package listeners

import (
	"context"

	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/domain/services"
)

// OrderPersistStateChangeListener writes the target status of an accepted
// transition to storage. Each notification runs in its own unit of work.
//
// Example:
//
//	handler.AddPersistStateChangeListener(listeners.NewOrderPersistStateChangeListener(uowFactory))
type OrderPersistStateChangeListener struct {
	uowFactory commands.OrderUoWFactory
}

var _ services.PersistStateChangeListener = OrderPersistStateChangeListener{}

// NewOrderPersistStateChangeListener creates a listener backed by uowFactory.
func NewOrderPersistStateChangeListener(uowFactory commands.OrderUoWFactory) OrderPersistStateChangeListener {
	return OrderPersistStateChangeListener{uowFactory: uowFactory}
}

// OnPersist loads the order by business key, sets the new status and saves it.
// An unknown key surfaces as errs.ObjectNotFoundError and vetoes the transition.
func (l OrderPersistStateChangeListener) OnPersist(ctx context.Context, change services.StateChange) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetByBusinessKey(ctx, change.Request.BusinessKey)
	if err != nil {
		return err
	}

	if err = o.ChangeStatus(change.State); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
