package commands_test

import (
	"testing"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActor(t *testing.T) {
	id := kernel.NewUUID()

	a, err := commands.NewActor(id, offer.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, a.ID().IsEqual(id))
	assert.Equal(t, offer.RoleCustomer, a.Role())

	_, err = commands.NewActor(id, offer.Role("admin"))
	require.Error(t, err)

	_, err = commands.NewActor(kernel.UUID{}, offer.RoleRider)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	var zero commands.Actor
	assert.ErrorIs(t, zero.Validate(), commands.ErrActorIsNotConstructed)
}

func TestNewAcceptOfferCommand(t *testing.T) {
	a := actor(t, kernel.NewUUID(), offer.RoleRider)
	offerID := kernel.NewUUID()

	cmd, err := commands.NewAcceptOfferCommand(offerID, a)
	require.NoError(t, err)
	assert.True(t, cmd.OfferID().IsEqual(offerID))
	assert.Equal(t, a, cmd.Actor())

	_, err = commands.NewAcceptOfferCommand(offerID, commands.Actor{})
	require.ErrorIs(t, err, commands.ErrActorIsNotConstructed)
}

func TestNewCounterOfferCommand(t *testing.T) {
	a := actor(t, kernel.NewUUID(), offer.RoleRider)

	cmd, err := commands.NewCounterOfferCommand(kernel.NewUUID(), mustFare(t, "12.50"), a)
	require.NoError(t, err)
	assert.Equal(t, "12.50", cmd.Fare().String())

	_, err = commands.NewCounterOfferCommand(kernel.NewUUID(), mustFare(t, "0"), a)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewCounterOfferCommand(kernel.NewUUID(), kernel.Fare{}, a)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewDeclineOfferCommand(t *testing.T) {
	_, err := commands.NewDeclineOfferCommand(kernel.NewUUID(), kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.DeclineOfferCommand
	assert.ErrorIs(t, zero.Validate(), commands.ErrDeclineOfferCommandIsNotConstructed)
}

func TestRiderCommands_RejectMissingIdentity(t *testing.T) {
	_, err := commands.NewRegisterRiderCommand(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewSetRiderAvailabilityCommand(kernel.UUID{}, true)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewUpdateRiderLocationCommand(kernel.NewUUID(), kernel.Location{}, rider.Telemetry{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
