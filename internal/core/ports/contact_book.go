package ports

import (
	"context"

	"mercuri/internal/core/domain/model/kernel"
)

// Contact is the counterpart summary embedded in notifications. Coordinates are never part of it.
type Contact struct {
	ID        kernel.UUID `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
}

// ContactBook resolves account details owned by the user-management system.
type ContactBook interface {
	Lookup(ctx context.Context, userID kernel.UUID) (Contact, error)
}
