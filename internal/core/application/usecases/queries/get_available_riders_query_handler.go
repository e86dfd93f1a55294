package queries

import (
	"context"
	"time"

	"mercuri/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetAvailableRidersQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableRidersQueryHandler(db *gorm.DB) GetAvailableRidersQueryHandler {
	return GetAvailableRidersQueryHandler{db: db}
}

// Handle orders riders longest-idle first, the same priority dispatch gives them.
func (h GetAvailableRidersQueryHandler) Handle(ctx context.Context, query GetAvailableRidersQuery) ([]RiderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			latitude,
			longitude,
			idle_since,
			location_updated_at
		FROM riders
		WHERE available AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY idle_since NULLS LAST, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	riders := make([]RiderView, 0)
	for rows.Next() {
		var (
			id                   uuid.UUID
			lat, lon             float64
			idleSince, updatedAt *time.Time
		)
		if err := rows.Scan(&id, &lat, &lon, &idleSince, &updatedAt); err != nil {
			return nil, err
		}

		riderID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		loc, err := kernel.NewLocation(lat, lon)
		if err != nil {
			// A stored fix that no longer validates keeps the rider out of discovery.
			continue
		}

		riders = append(riders, RiderView{
			ID:                riderID,
			Location:          loc,
			IdleSince:         idleSince,
			LocationUpdatedAt: updatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return riders, nil
}
