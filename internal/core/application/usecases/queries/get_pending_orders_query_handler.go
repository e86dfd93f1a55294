package queries

import (
	"context"

	"mercuri/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle includes orders past their deadline that the reaper has not swept yet.
func (h GetPendingOrdersQueryHandler) Handle(ctx context.Context, query GetPendingOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
	`, order.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderView, 0)
	for rows.Next() {
		view, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
