package mq

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the JSON wire form of a Message used by network adapters.
type envelope struct {
	ID         string          `json:"id"`
	Identifier string          `json:"identifier"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Marshal encodes a message into its JSON wire envelope.
// A json.RawMessage payload is embedded verbatim; any other payload is JSON-encoded.
func Marshal(msg Message) ([]byte, error) {
	env := envelope{
		ID:         msg.ID,
		Identifier: msg.Identifier,
		CreatedAt:  msg.CreatedAt,
	}

	switch p := msg.Payload.(type) {
	case nil:
	case json.RawMessage:
		env.Payload = p
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		env.Payload = data
	}

	return json.Marshal(env)
}

// Unmarshal decodes a JSON wire envelope. The payload is returned as
// json.RawMessage; use Decode to convert it to a concrete type.
func Unmarshal(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if env.Identifier == "" {
		return Message{}, fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyIdentifier)
	}

	msg := Message{
		ID:         env.ID,
		Identifier: env.Identifier,
		CreatedAt:  env.CreatedAt,
	}
	if len(env.Payload) > 0 {
		msg.Payload = env.Payload
	}
	return msg, nil
}
