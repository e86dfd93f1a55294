package commands_test

import (
	"testing"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	orderID, customerID := kernel.NewUUID(), kernel.NewUUID()
	pickup := mustLocation(t, 6.70, 6.70)

	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, pickup, mustLocation(t, 6.8, 6.8), "  food ", " box ", mustFare(t, "12.5"),
	)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.OrderID().IsEqual(orderID))
	assert.True(t, cmd.CustomerID().IsEqual(customerID))
	assert.Equal(t, pickup, cmd.Pickup())
	assert.Equal(t, "food", cmd.ItemCategory())
	assert.Equal(t, "box", cmd.ItemType())
	assert.Equal(t, "12.50", cmd.SuggestedCost().String())
}

func TestNewCreateOrderCommand_CollectsEveryProblem(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.UUID{}, kernel.Location{}, kernel.Location{}, " ", "", kernel.Fare{},
	)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	for _, field := range []string{"customer", "pickup", "dropoff", "itemCategory", "suggestedCost"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestCreateOrderCommand_ZeroValueIsRejected(t *testing.T) {
	var cmd commands.CreateOrderCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
