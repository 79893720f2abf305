package mq

import (
	"context"

	"github.com/google/uuid"
)

// Observer is the opaque handle returned by Subscribe.
// It is only meaningful to the queue that issued it.
type Observer interface {
	// ID returns the unique identifier generated when the observer subscribed.
	ID() uuid.UUID

	// Identifier returns the message identifier the observer listens for.
	Identifier() string
}

// Queue is the single-queue subscription capability.
//
// Implementations must be pointer types: queues are compared by identity
// when attached to or detached from a CompositeQueue.
type Queue interface {
	// Subscribe registers handler for messages matching identifier.
	Subscribe(identifier string, handler Handler) (Observer, error)

	// Unsubscribe releases the observer. It reports whether the observer
	// was active on this queue; releasing twice returns false.
	Unsubscribe(observer Observer) bool
}

// Publisher publishes messages to a queue.
type Publisher interface {
	// Publish wraps payload into a Message and delivers it to observers of identifier.
	Publish(ctx context.Context, identifier string, payload any) error
}

// PublishQueue is a Queue that also accepts publications.
type PublishQueue interface {
	Queue
	Publisher
}

// observer is the plain Observer used by MemoryQueue and the adapters.
type observer struct {
	id         uuid.UUID
	identifier string
	handler    Handler
}

func newObserver(identifier string, handler Handler) *observer {
	return &observer{
		id:         uuid.New(),
		identifier: identifier,
		handler:    handler,
	}
}

// ID returns the unique observer identifier.
func (o *observer) ID() uuid.UUID { return o.id }

// Identifier returns the observed message identifier.
func (o *observer) Identifier() string { return o.identifier }

func validateSubscription(identifier string, handler Handler) error {
	if identifier == "" {
		return ErrEmptyIdentifier
	}
	if handler == nil {
		return ErrNilHandler
	}
	return nil
}
