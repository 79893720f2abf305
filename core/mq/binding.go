package mq

import (
	"fmt"

	"github.com/google/uuid"
)

// attachment is one entry of the composite's child list.
// Attaching the same queue twice yields two attachments with distinct ids.
type attachment struct {
	id    uuid.UUID
	queue Queue
}

// bindingKey addresses one child-level subscription in the binding arena.
type bindingKey struct {
	observer uuid.UUID
	child    uuid.UUID
}

// childBinding realizes one composite observer against one attached child.
type childBinding struct {
	queue    Queue
	handle   Observer
	released bool
}

// release unsubscribes from the child queue. Only the first call reaches the
// child; it reports what the child returned.
func (b *childBinding) release() bool {
	if b.released {
		return false
	}
	b.released = true
	return b.queue.Unsubscribe(b.handle)
}

// compositeObserver is the handle returned by CompositeQueue.Subscribe.
type compositeObserver struct {
	id         uuid.UUID
	identifier string
	handler    Handler
	self       Observer
}

// ID returns the unique observer identifier.
func (o *compositeObserver) ID() uuid.UUID { return o.id }

// Identifier returns the observed message identifier.
func (o *compositeObserver) Identifier() string { return o.identifier }

// queueName returns a printable name for a queue.
func queueName(q Queue) string {
	if n, ok := q.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", q)
}
