// Package contactrepo reads counterpart contact details from the accounts table
// owned by the user-management system.
package contactrepo

import (
	"context"
	"errors"

	"mercuri/internal/adapters/out/postgres/pgerr"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountDTO is the subset of the accounts table the engine reads.
type AccountDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255)"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(32)"`
}

func (AccountDTO) TableName() string {
	return "accounts"
}

// GormContactBook implements ports.ContactBook.
type GormContactBook struct {
	db *gorm.DB
}

func NewGormContactBook(db *gorm.DB) *GormContactBook {
	return &GormContactBook{db: db}
}

// Lookup degrades to an ID-only contact when the account row is missing.
func (b *GormContactBook) Lookup(ctx context.Context, userID kernel.UUID) (ports.Contact, error) {
	if err := userID.Validate(); err != nil {
		return ports.Contact{}, err
	}

	var dto AccountDTO
	err := b.db.WithContext(ctx).First(&dto, "id = ?", userID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Contact{ID: userID}, nil
	}
	if err != nil {
		return ports.Contact{}, pgerr.Classify("lookup contact", err)
	}

	return ports.Contact{
		ID:        userID,
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Phone:     dto.Phone,
	}, nil
}
