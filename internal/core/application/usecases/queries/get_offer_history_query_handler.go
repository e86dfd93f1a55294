package queries

import (
	"context"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOfferHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOfferHistoryQueryHandler(db *gorm.DB) GetOfferHistoryQueryHandler {
	return GetOfferHistoryQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an offer that never recorded anything.
func (h GetOfferHistoryQueryHandler) Handle(ctx context.Context, query GetOfferHistoryQuery) ([]OfferEventView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, rider_id, kind, payload, created_at
		FROM offer_events
		WHERE offer_id = ?
		ORDER BY created_at, id
	`, query.OfferID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OfferEventView, 0)
	for rows.Next() {
		var (
			id, orderID, riderID uuid.UUID
			payload              string
			event                OfferEventView
		)
		if err := rows.Scan(&id, &orderID, &riderID, &event.Kind, &payload, &event.CreatedAt); err != nil {
			return nil, err
		}

		ids := [3]*kernel.UUID{&event.ID, &event.OrderID, &event.RiderID}
		for i, raw := range [3]uuid.UUID{id, orderID, riderID} {
			parsed, err := kernel.UUIDFromBytes(raw[:])
			if err != nil {
				return nil, err
			}
			*ids[i] = parsed
		}
		event.Payload = []byte(payload)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, errs.NewObjectNotFoundError("offer", query.OfferID().String())
	}

	return events, nil
}
