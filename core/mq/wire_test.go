package mq_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

type userCreated struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestMarshalUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("struct payload arrives as raw json", func(t *testing.T) {
		t.Parallel()

		msg := mq.NewMessage("user.created", userCreated{ID: "42", Email: "a@example.com"})
		data, err := mq.Marshal(msg)
		require.NoError(t, err)

		got, err := mq.Unmarshal(data)
		require.NoError(t, err)

		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, msg.Identifier, got.Identifier)
		assert.True(t, msg.CreatedAt.Equal(got.CreatedAt))
		assert.IsType(t, json.RawMessage{}, got.Payload)
		assert.JSONEq(t, `{"id":"42","email":"a@example.com"}`, string(got.Payload.(json.RawMessage)))

		evt, err := mq.Decode[userCreated](got)
		require.NoError(t, err)
		assert.Equal(t, "42", evt.ID)
	})

	t.Run("raw payload is embedded verbatim", func(t *testing.T) {
		t.Parallel()

		msg := mq.Message{
			ID:         "1",
			Identifier: "ping",
			Payload:    json.RawMessage(`{"n":1}`),
			CreatedAt:  time.Unix(0, 0).UTC(),
		}
		data, err := mq.Marshal(msg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1","identifier":"ping","payload":{"n":1},"created_at":"1970-01-01T00:00:00Z"}`, string(data))
	})

	t.Run("nil payload stays nil", func(t *testing.T) {
		t.Parallel()

		data, err := mq.Marshal(mq.NewMessage("ping", nil))
		require.NoError(t, err)

		got, err := mq.Unmarshal(data)
		require.NoError(t, err)
		assert.Nil(t, got.Payload)
	})

	t.Run("unencodable payload", func(t *testing.T) {
		t.Parallel()

		_, err := mq.Marshal(mq.NewMessage("ping", make(chan int)))
		assert.Error(t, err)
	})

	t.Run("invalid envelopes", func(t *testing.T) {
		t.Parallel()

		_, err := mq.Unmarshal([]byte("not json"))
		assert.ErrorIs(t, err, mq.ErrInvalidMessage)

		_, err = mq.Unmarshal([]byte(`{"id":"1"}`))
		assert.ErrorIs(t, err, mq.ErrInvalidMessage)
		assert.ErrorIs(t, err, mq.ErrEmptyIdentifier)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	want := userCreated{ID: "7", Email: "b@example.com"}

	tests := []struct {
		name    string
		payload any
	}{
		{"direct type", want},
		{"raw message", json.RawMessage(`{"id":"7","email":"b@example.com"}`)},
		{"bytes", []byte(`{"id":"7","email":"b@example.com"}`)},
		{"generic map", map[string]any{"id": "7", "email": "b@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mq.Decode[userCreated](mq.NewMessage("user.created", tt.payload))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("unsupported payload type", func(t *testing.T) {
		t.Parallel()

		_, err := mq.Decode[userCreated](mq.NewMessage("user.created", 42))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		_, err := mq.Decode[userCreated](mq.NewMessage("user.created", []byte("{")))
		assert.Error(t, err)
	})
}
