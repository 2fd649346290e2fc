package queries

import (
	"context"

	"orderstate/internal/core/domain/model/order"
)

// OrderReader is the read side of ports.OrderRepository.
type OrderReader interface {
	GetAll(ctx context.Context) ([]*order.Order, error)
}

// ListOrdersQueryHandler reads every order through an OrderReader.
// Results are ordered by business key, as the repository returns them.
type ListOrdersQueryHandler struct {
	reader OrderReader
}

// NewListOrdersQueryHandler creates a handler for the order listing.
func NewListOrdersQueryHandler(reader OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

// Handle executes the listing. An empty store yields an empty, non-nil slice.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ListOrdersQueryResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, ListOrdersQueryResponse{
			ID:          o.ID(),
			BusinessKey: o.BusinessKey(),
			Status:      o.Status(),
		})
	}

	return result, nil
}
