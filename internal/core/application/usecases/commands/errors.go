package commands

import (
	"errors"

	"mercuri/internal/core/domain/services"
)

var (
	// ErrOfferExpired means the offer's deadline passed; the caller needs a new dispatch.
	ErrOfferExpired = errors.New("offer expired")

	// ErrAlreadyResolved means the order already has a winner or is no longer pending.
	ErrAlreadyResolved = errors.New("order already resolved")

	// ErrActorNotParticipant means the caller is neither the offer's rider nor the order's customer,
	// as the operation requires.
	ErrActorNotParticipant = errors.New("actor is not a participant")

	ErrOrderNotPending   = services.ErrOrderNotPending
	ErrNoCandidatesFound = services.ErrNoCandidatesFound
)
