package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "helpapp/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseContactID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseContactID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseDispatchID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseContactID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ContactID(validUUID), id)
	})
}

func TestParseDeviceID(t *testing.T) {
	_, err := ParseDeviceID("")
	require.Error(t, err)

	id, err := ParseDeviceID("pixel-7")
	require.NoError(t, err)
	assert.Equal(t, "pixel-7", id.String())
}

func TestIDsMarshalAsPlainStrings(t *testing.T) {
	raw := uuid.New()
	out, err := json.Marshal(map[string]ContactID{"id": ContactID(raw)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+raw.String()+`"}`, string(out))
}

func TestIDsUnmarshalFromJSON(t *testing.T) {
	raw := uuid.New()
	var got struct {
		ID NoticeID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+raw.String()+`"}`), &got))
	assert.Equal(t, NoticeID(raw), got.ID)

	err := json.Unmarshal([]byte(`{"id":"nope"}`), &got)
	require.Error(t, err)
}
