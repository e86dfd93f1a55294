// Package riderrepo is the rider directory's gorm storage.
package riderrepo

import (
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO is the riders table row. Coordinates stay NULL until the first location fix.
type RiderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available         bool      `gorm:"not null;default:true;index"`
	Latitude          *float64  `gorm:"type:double precision"`
	Longitude         *float64  `gorm:"type:double precision"`
	Heading           *float64  `gorm:"type:double precision"`
	Speed             *float64  `gorm:"type:double precision"`
	Accuracy          *float64  `gorm:"type:double precision"`
	IdleSince         *time.Time
	LocationUpdatedAt *time.Time
}

func (RiderDTO) TableName() string {
	return "riders"
}

func fromDomain(r *rider.Rider) RiderDTO {
	dto := RiderDTO{
		ID:                r.ID().Bytes(),
		Available:         r.IsAvailable(),
		IdleSince:         utc(r.IdleSince()),
		LocationUpdatedAt: utc(r.LocationUpdatedAt()),
	}

	if loc := r.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lon
	}

	tel := r.Telemetry()
	dto.Heading, dto.Speed, dto.Accuracy = tel.Heading, tel.Speed, tel.Accuracy

	return dto
}

func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var loc *kernel.Location
	if dto.Latitude != nil && dto.Longitude != nil {
		if l, locErr := kernel.NewLocation(*dto.Latitude, *dto.Longitude); locErr == nil {
			loc = &l
		}
	}

	return rider.RestoreRider(rider.State{
		ID:        id,
		Available: dto.Available,
		Location:  loc,
		Telemetry: rider.Telemetry{
			Heading:  dto.Heading,
			Speed:    dto.Speed,
			Accuracy: dto.Accuracy,
		},
		IdleSince:         dto.IdleSince,
		LocationUpdatedAt: dto.LocationUpdatedAt,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
