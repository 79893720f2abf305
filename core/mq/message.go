package mq

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a unit of delivery between publishers and observers.
type Message struct {
	ID         string    `json:"id"`         // Unique identifier for the message
	Identifier string    `json:"identifier"` // Message kind used to match observers
	Payload    any       `json:"payload"`    // Message data (struct, []byte or decoded JSON)
	CreatedAt  time.Time `json:"created_at"` // When the message was created
}

// NewMessage creates a Message with an auto-generated ID and timestamp.
//
// Example:
//
//	msg := mq.NewMessage("user.created", UserCreated{ID: "42"})
func NewMessage(identifier string, payload any) Message {
	return Message{
		ID:         uuid.New().String(),
		Identifier: identifier,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}
}

// Handler processes a message delivered by a queue.
// The context is the one passed to Publish (or the adapter's receive loop context).
type Handler func(ctx context.Context, msg Message) error
