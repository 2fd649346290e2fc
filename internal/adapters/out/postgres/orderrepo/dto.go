// Package orderrepo maps orders to the "orders" table.
//
// The status column stores the stable status code (e.g. "WAIT_DELIVER"), never
// the declaration ordinal, so reordering or extending the enumeration does not
// reinterpret existing rows.
package orderrepo

import (
	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row of an order.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessKey int       `gorm:"not null;uniqueIndex"`
	Status      string    `gorm:"type:varchar(32);not null;index"`
}

// TableName overrides GORM's naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID().Bytes(),
		BusinessKey: o.BusinessKey().Int(),
		Status:      o.Status().Code(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	key, err := order.NewBusinessKey(dto.BusinessKey)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, key, status)
}
