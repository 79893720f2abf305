package mq

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode converts a message payload to T.
//
// Payloads delivered in-process keep their original type; payloads received
// from a network adapter arrive as json.RawMessage and are unmarshaled.
//
// Example:
//
//	evt, err := mq.Decode[UserCreated](msg)
func Decode[T any](msg Message) (T, error) {
	var zero T

	// Direct type match - payload is already the correct type
	if v, ok := msg.Payload.(T); ok {
		return v, nil
	}

	var data []byte
	switch p := msg.Payload.(type) {
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	case map[string]any:
		// Generic JSON objects show up when a payload was decoded as `any`.
		b, err := json.Marshal(p)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal map payload: %w", err)
		}
		data = b
	default:
		return zero, fmt.Errorf("unexpected payload type: %T", msg.Payload)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return v, nil
}

// safeHandle runs the handler and converts a panic into an error.
func safeHandle(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()
	return handler(ctx, msg)
}
