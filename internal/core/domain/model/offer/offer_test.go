package offer_test

import (
	"testing"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustFare(t *testing.T, s string) kernel.Fare {
	t.Helper()
	f, err := kernel.ParseFare(s)
	require.NoError(t, err)
	return f
}

func newOffer(t *testing.T) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), mustFare(t, "1500"), now)
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	t.Run("should open offer for fifty seconds", func(t *testing.T) {
		o := newOffer(t)

		assert.NoError(t, o.Validate())
		assert.False(t, o.IsCounter())
		assert.False(t, o.IsAccepted())
		assert.Equal(t, now, o.CreatedAt())
		assert.Equal(t, now.Add(50*time.Second), o.ExpiresAt())
		assert.True(t, o.IsLive(now))
	})

	t.Run("should reject missing references", func(t *testing.T) {
		_, err := offer.NewOffer(kernel.UUID{}, kernel.UUID{}, kernel.UUID{}, kernel.Fare{}, time.Time{})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		for _, field := range []string{"order", "rider", "fare", "createdAt"} {
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o offer.Offer
		assert.ErrorIs(t, o.Validate(), offer.ErrOfferIsNotConstructed)
	})
}

func TestOffer_Expiry(t *testing.T) {
	o := newOffer(t)

	assert.False(t, o.IsExpired(o.ExpiresAt()), "deadline instant is still open")
	assert.True(t, o.IsExpired(o.ExpiresAt().Add(time.Millisecond)))
	assert.False(t, o.IsLive(o.ExpiresAt().Add(time.Millisecond)))
}

func TestOffer_Counter(t *testing.T) {
	t.Run("sets counter flag, fare and a fresh thirty second deadline", func(t *testing.T) {
		o := newOffer(t)
		at := now.Add(45 * time.Second)

		require.NoError(t, o.Counter(mustFare(t, "1750.5"), at))

		assert.True(t, o.IsCounter())
		assert.Equal(t, "1750.50", o.Fare().String())
		assert.Equal(t, at.Add(30*time.Second), o.ExpiresAt())
		assert.True(t, o.IsLive(now.Add(70*time.Second)))
	})

	t.Run("expired offer cannot be revived", func(t *testing.T) {
		o := newOffer(t)

		err := o.Counter(mustFare(t, "10"), now.Add(time.Minute))

		assert.ErrorIs(t, err, offer.ErrOfferIsExpired)
		assert.False(t, o.IsCounter())
		assert.Equal(t, "1500.00", o.Fare().String())
	})

	t.Run("accepted offer cannot be countered", func(t *testing.T) {
		o := newOffer(t)
		require.NoError(t, o.MarkAccepted(now))

		assert.ErrorIs(t, o.Counter(mustFare(t, "10"), now), offer.ErrOfferIsAccepted)
	})
}

func TestOffer_MarkAccepted(t *testing.T) {
	o := newOffer(t)

	require.NoError(t, o.MarkAccepted(now.Add(10*time.Second)))
	assert.True(t, o.IsAccepted())
	assert.False(t, o.IsLive(now))

	assert.ErrorIs(t, o.MarkAccepted(now), offer.ErrOfferIsAccepted)

	late := newOffer(t)
	assert.ErrorIs(t, late.MarkAccepted(now.Add(51*time.Second)), offer.ErrOfferIsExpired)
	assert.False(t, late.IsAccepted())
}

func TestRestoreOffer(t *testing.T) {
	state := offer.State{
		ID:        kernel.NewUUID(),
		OrderID:   kernel.NewUUID(),
		RiderID:   kernel.NewUUID(),
		Fare:      mustFare(t, "12.5"),
		IsCounter: true,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Second),
	}

	o, err := offer.RestoreOffer(state)
	require.NoError(t, err)
	assert.True(t, o.ID().IsEqual(state.ID))
	assert.True(t, o.IsCounter())
	assert.Equal(t, state.ExpiresAt, o.ExpiresAt())

	state.ExpiresAt = time.Time{}
	_, err = offer.RestoreOffer(state)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
