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

func TestNewEvent(t *testing.T) {
	o := newOffer(t)

	e, err := offer.NewEvent(o, offer.DeclinedPayload{RiderID: o.RiderID()}, now)

	require.NoError(t, err)
	assert.NoError(t, e.Validate())
	assert.Equal(t, offer.KindDeclined, e.Kind())
	assert.True(t, e.OfferID().IsEqual(o.ID()))
	assert.True(t, e.OrderID().IsEqual(o.OrderID()))
	assert.True(t, e.RiderID().IsEqual(o.RiderID()))
	assert.Equal(t, now, e.CreatedAt())
}

func TestNewEvent_Rejects(t *testing.T) {
	o := newOffer(t)

	_, err := offer.NewEvent(o, nil, now)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = offer.NewEvent(&offer.Offer{}, offer.SentPayload{}, now)
	assert.ErrorIs(t, err, offer.ErrOfferIsNotConstructed)
}

func TestPayloadKinds(t *testing.T) {
	tests := map[offer.Kind]offer.Payload{
		offer.KindSent:      offer.SentPayload{},
		offer.KindCountered: offer.CounteredPayload{},
		offer.KindAccepted:  offer.AcceptedPayload{},
		offer.KindDeclined:  offer.DeclinedPayload{},
		offer.KindExpired:   offer.ExpiredPayload{},
	}

	for kind, p := range tests {
		assert.Equal(t, kind, p.Kind())
	}
}

func TestPayloadStorageEncoding(t *testing.T) {
	riderID := kernel.NewUUID()
	fare, _ := kernel.ParseFare("99.9")

	t.Run("countered keeps fare as a decimal string", func(t *testing.T) {
		raw, err := offer.MarshalPayload(offer.CounteredPayload{Fare: fare, By: offer.RoleCustomer})
		require.NoError(t, err)
		assert.JSONEq(t, `{"fare":"99.90","by":"customer"}`, string(raw))

		p, err := offer.UnmarshalPayload(offer.KindCountered, raw)
		require.NoError(t, err)
		countered, ok := p.(offer.CounteredPayload)
		require.True(t, ok)
		assert.True(t, countered.Fare.IsEqual(fare))
		assert.Equal(t, offer.RoleCustomer, countered.By)
	})

	t.Run("accepted keeps rider snapshot", func(t *testing.T) {
		raw, err := offer.MarshalPayload(offer.AcceptedPayload{RiderID: riderID, By: offer.RoleRider})
		require.NoError(t, err)

		p, err := offer.UnmarshalPayload(offer.KindAccepted, raw)
		require.NoError(t, err)
		assert.True(t, p.(offer.AcceptedPayload).RiderID.IsEqual(riderID))
	})

	t.Run("expired reason", func(t *testing.T) {
		raw, err := offer.MarshalPayload(offer.ExpiredPayload{Reason: offer.ReasonSwept})
		require.NoError(t, err)
		assert.JSONEq(t, `{"reason":"swept"}`, string(raw))
	})

	t.Run("unknown kind and corrupt body are rejected", func(t *testing.T) {
		_, err := offer.UnmarshalPayload("ringing", []byte(`{}`))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = offer.UnmarshalPayload(offer.KindSent, []byte(`{"rider_id":"x"}`))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestParseRole(t *testing.T) {
	r, err := offer.ParseRole("rider")
	require.NoError(t, err)
	assert.Equal(t, offer.RoleRider, r)

	_, err = offer.ParseRole("admin")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRestoreEvent(t *testing.T) {
	_, err := offer.RestoreEvent(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		offer.ExpiredPayload{Reason: offer.ReasonDeadlinePassed}, time.Time{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
