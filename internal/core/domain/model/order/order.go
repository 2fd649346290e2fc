package order

import (
	"errors"
	"fmt"

	"orderstate/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the persisted entity whose status the state machine drives.
//
// Order follows these invariants:
//   - id is a valid UUID and never changes after creation
//   - businessKey is positive; uniqueness is enforced by the repository
//   - status is always one of the declared statuses
//
// The status is only changed by the persistence listener once the state
// machine has accepted a transition; Order itself does not know the rules.
type Order struct {
	id          kernel.UUID
	businessKey BusinessKey
	status      Status

	isConstructed bool
}

// NewOrder creates an order with the given business key and initial status.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), 1001, order.WaitPayment)
//	if err != nil {
//	    return err
//	}
func NewOrder(id kernel.UUID, businessKey BusinessKey, status Status) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setBusinessKey(businessKey),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read back from storage. It applies the same
// validation as NewOrder so corrupt rows surface as errors instead of zero values.
func RestoreOrder(id kernel.UUID, businessKey BusinessKey, status Status) (*Order, error) {
	return NewOrder(id, businessKey, status)
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the storage identity.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BusinessKey returns the external order number.
func (o *Order) BusinessKey() BusinessKey {
	return o.businessKey
}

// Status returns the last persisted status.
func (o *Order) Status() Status {
	return o.status
}

// ChangeStatus overwrites the status with one computed by the state machine.
// Only validity is checked here; admissibility was decided by the transition table.
func (o *Order) ChangeStatus(status Status) error {
	return o.setStatus(status)
}

// String renders the order for diagnostic listings, e.g.
// "Order{orderId=1001, status=WAIT_DELIVER}".
func (o *Order) String() string {
	return fmt.Sprintf("Order{orderId=%d, status=%s}", o.businessKey, o.status)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBusinessKey(key BusinessKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	o.businessKey = key
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
