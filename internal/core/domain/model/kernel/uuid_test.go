package kernel_test

import (
	"encoding/json"
	"testing"

	"mercuri/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	assert.NoError(t, id1.Validate())
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id1.String())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	t.Run("accepts canonical and alternate forms", func(t *testing.T) {
		for _, in := range []string{
			knownID,
			"{" + knownID + "}",
			"urn:uuid:" + knownID,
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.UUIDFromString(in)
			require.NoError(t, err, in)
			assert.Equal(t, knownID, id.String())
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, in := range []string{"", "rider-42", "550e8400-e29b-41d4-a716", knownID + "-x"} {
			_, err := kernel.UUIDFromString(in)
			require.Error(t, err, in)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	raw := uuid.MustParse(knownID)

	id, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.Equal(t, knownID, id.String())

	_, err = kernel.UUIDFromBytes([]byte{0x55, 0x0e})
	assert.ErrorContains(t, err, "invalid UUID format")

	_, err = kernel.UUIDFromBytes(make([]byte, 16))
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	assert.True(t, id.IsEqual(kernel.UUID{}))
}

func TestUUID_Bytes_DoesNotAlias(t *testing.T) {
	original := kernel.NewUUID()
	before := original.String()

	b := original.Bytes()
	for i := range b {
		b[i] = 0xFF
	}

	assert.Equal(t, before, original.String())
}

func TestUUID_TextRoundTripInJSON(t *testing.T) {
	type payload struct {
		RiderID kernel.UUID `json:"rider_id"`
	}
	id, err := kernel.UUIDFromString(knownID)
	require.NoError(t, err)

	b, err := json.Marshal(payload{RiderID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rider_id":"`+knownID+`"}`, string(b))

	var decoded payload
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, decoded.RiderID.IsEqual(id))

	assert.Error(t, json.Unmarshal([]byte(`{"rider_id":"nope"}`), &decoded))
}
