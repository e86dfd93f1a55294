package kernel_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
)

func TestNewFare(t *testing.T) {
	t.Run("rounds to two places", func(t *testing.T) {
		f, err := kernel.NewFare(decimal.RequireFromString("12.345"))
		require.NoError(t, err)
		assert.Equal(t, "12.35", f.String())
		assert.NoError(t, f.Validate())
	})

	t.Run("zero is allowed", func(t *testing.T) {
		f, err := kernel.NewFare(decimal.Zero)
		require.NoError(t, err)
		assert.True(t, f.IsZero())
		assert.Equal(t, "0.00", f.String())
	})

	t.Run("negative is rejected", func(t *testing.T) {
		_, err := kernel.NewFare(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestParseFare(t *testing.T) {
	f, err := kernel.ParseFare("1500")
	require.NoError(t, err)
	assert.Equal(t, "1500.00", f.String())

	_, err = kernel.ParseFare("")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = kernel.ParseFare("ten")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = kernel.ParseFare("-0.01")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestFare_Multiply(t *testing.T) {
	f, _ := kernel.ParseFare("10.00")

	same, err := f.Multiply(decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, same.IsEqual(f))

	scaled, err := f.Multiply(decimal.RequireFromString("1.333"))
	require.NoError(t, err)
	assert.Equal(t, "13.33", scaled.String())

	var zero kernel.Fare
	_, err = zero.Multiply(decimal.NewFromInt(2))
	assert.ErrorIs(t, err, kernel.ErrFareIsNotConstructed)
}

func TestFare_MarshalsAsString(t *testing.T) {
	f, _ := kernel.ParseFare("7.5")
	b, err := json.Marshal(map[string]kernel.Fare{"fare": f})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fare":"7.50"}`, string(b))
}
