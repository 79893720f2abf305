package mq

import "errors"

var (
	// ErrEmptyIdentifier is returned when subscribing or publishing without a message identifier.
	ErrEmptyIdentifier = errors.New("message identifier must not be empty")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNilQueue is returned when attaching a nil child queue.
	ErrNilQueue = errors.New("queue must not be nil")

	// ErrQueueClosed is returned when operating on a closed queue.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrBufferFull is returned by an async queue when its delivery buffer is full.
	ErrBufferFull = errors.New("delivery buffer is full")

	// ErrChildAlreadyAttached is returned when duplicate attaches are rejected
	// and the queue is already a child of the composite.
	ErrChildAlreadyAttached = errors.New("child queue is already attached")

	// ErrSelfAttach is returned when a composite queue is attached to itself.
	ErrSelfAttach = errors.New("composite queue cannot be attached to itself")

	// ErrHandlerPanicked wraps a recovered handler panic.
	ErrHandlerPanicked = errors.New("handler panicked")

	// ErrInvalidMessage is returned when a wire envelope cannot be decoded.
	ErrInvalidMessage = errors.New("invalid message envelope")
)
