package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderColumns = `
	id,
	customer_id,
	rider_id,
	status,
	pickup_latitude,
	pickup_longitude,
	dropoff_latitude,
	dropoff_longitude,
	item_category,
	item_type,
	suggested_cost,
	created_at,
	accepted_at,
	expires_at`

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)

	row := db.Raw(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, query.OrderID().Bytes()).Row()
	view, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Raw(`
		SELECT id, rider_id, fare, is_counter, accepted, created_at, expires_at
		FROM offers
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]OfferView, 0)
	for rows.Next() {
		var (
			id, riderID uuid.UUID
			fare        decimal.Decimal
			offer       OfferView
		)
		if err := rows.Scan(&id, &riderID, &fare, &offer.IsCounter, &offer.Accepted, &offer.CreatedAt, &offer.ExpiresAt); err != nil {
			return nil, err
		}

		if offer.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if offer.RiderID, err = kernel.UUIDFromBytes(riderID[:]); err != nil {
			return nil, err
		}
		if offer.Fare, err = kernel.NewFare(fare); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &GetOrderQueryResponse{Order: view, Offers: offers}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (OrderView, error) {
	var (
		view                   OrderView
		id, customerID         uuid.UUID
		riderID                uuid.NullUUID
		pickupLat, pickupLon   float64
		dropoffLat, dropoffLon float64
		cost                   decimal.Decimal
		acceptedAt             *time.Time
	)

	if err := row.Scan(
		&id,
		&customerID,
		&riderID,
		&view.Status,
		&pickupLat,
		&pickupLon,
		&dropoffLat,
		&dropoffLon,
		&view.ItemCategory,
		&view.ItemType,
		&cost,
		&view.CreatedAt,
		&acceptedAt,
		&view.ExpiresAt,
	); err != nil {
		return OrderView{}, err
	}

	var err error
	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderView{}, err
	}
	if view.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return OrderView{}, err
	}
	if riderID.Valid {
		rID, err := kernel.UUIDFromBytes(riderID.UUID[:])
		if err != nil {
			return OrderView{}, err
		}
		view.RiderID = &rID
	}
	if view.Pickup, err = kernel.NewLocation(pickupLat, pickupLon); err != nil {
		return OrderView{}, err
	}
	if view.Dropoff, err = kernel.NewLocation(dropoffLat, dropoffLon); err != nil {
		return OrderView{}, err
	}
	if view.SuggestedCost, err = kernel.NewFare(cost); err != nil {
		return OrderView{}, err
	}
	view.AcceptedAt = acceptedAt

	return view, nil
}
