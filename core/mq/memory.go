package mq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/adamzdara/Sample-Codes/core/logger"
)

// MemoryQueue is an in-process Queue.
//
// By default Publish delivers synchronously: matching handlers run in the
// caller's goroutine in subscription order and their errors are joined.
// With WithAsyncDelivery, Publish enqueues into a buffered channel consumed by
// a single dispatcher goroutine, so delivery order matches publish order.
//
// MemoryQueue is safe for concurrent use.
type MemoryQueue struct {
	mu        sync.RWMutex
	observers map[string][]*observer
	index     map[uuid.UUID]*observer
	closed    bool

	name   string
	logger *slog.Logger

	ch chan delivery
	wg sync.WaitGroup
}

type delivery struct {
	ctx context.Context
	msg Message
}

// NewMemoryQueue creates an in-memory queue.
//
// Example:
//
//	q := mq.NewMemoryQueue(mq.WithName("orders"), mq.WithAsyncDelivery(100))
//	defer q.Close()
func NewMemoryQueue(opts ...MemoryQueueOption) *MemoryQueue {
	q := &MemoryQueue{
		observers: make(map[string][]*observer),
		index:     make(map[uuid.UUID]*observer),
		name:      "memory",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(q)
	}

	if q.ch != nil {
		q.wg.Add(1)
		go q.dispatchLoop()
	}

	return q
}

// Name returns the queue name used in logs and metrics.
func (q *MemoryQueue) Name() string {
	return q.name
}

// Subscribe registers handler for messages with the given identifier.
func (q *MemoryQueue) Subscribe(identifier string, handler Handler) (Observer, error) {
	if err := validateSubscription(identifier, handler); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	o := newObserver(identifier, handler)
	q.observers[identifier] = append(q.observers[identifier], o)
	q.index[o.id] = o

	q.logger.Debug("observer subscribed",
		logger.Queue(q.name),
		logger.Identifier(identifier),
		logger.ObserverID(o.id))

	return o, nil
}

// Unsubscribe releases an observer previously returned by Subscribe.
// It returns false if the observer is unknown to this queue or already released.
func (q *MemoryQueue) Unsubscribe(obs Observer) bool {
	if obs == nil {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	o, ok := q.index[obs.ID()]
	if !ok || Observer(o) != obs {
		return false
	}

	delete(q.index, o.id)
	list := slices.DeleteFunc(q.observers[o.identifier], func(x *observer) bool {
		return x == o
	})
	if len(list) == 0 {
		delete(q.observers, o.identifier)
	} else {
		q.observers[o.identifier] = list
	}

	q.logger.Debug("observer unsubscribed",
		logger.Queue(q.name),
		logger.Identifier(o.identifier),
		logger.ObserverID(o.id))

	return true
}

// Publish creates a message and delivers it to observers of identifier.
//
// For synchronous queues it blocks until all handlers return and reports
// their joined errors. For async queues it returns ErrBufferFull when the
// buffer has no room, otherwise nil.
func (q *MemoryQueue) Publish(ctx context.Context, identifier string, payload any) error {
	if identifier == "" {
		return ErrEmptyIdentifier
	}
	return q.Dispatch(ctx, NewMessage(identifier, payload))
}

// Dispatch delivers an existing message (keeping its ID and timestamp).
// Network adapters use it to fan received messages out to local observers.
func (q *MemoryQueue) Dispatch(ctx context.Context, msg Message) error {
	if msg.Identifier == "" {
		return ErrEmptyIdentifier
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}

	if q.ch != nil {
		defer q.mu.RUnlock()
		// Non-blocking send - report a full buffer instead of stalling the publisher
		select {
		case q.ch <- delivery{ctx: ctx, msg: msg}:
			return nil
		default:
			return ErrBufferFull
		}
	}

	targets := slices.Clone(q.observers[msg.Identifier])
	q.mu.RUnlock()

	return q.deliver(ctx, msg, targets)
}

// Count returns the number of active observers for identifier.
func (q *MemoryQueue) Count(identifier string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.observers[identifier])
}

// Len returns the total number of active observers.
func (q *MemoryQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.index)
}

// Close stops accepting subscriptions and publications.
// An async queue drains already buffered messages before Close returns.
// Closing twice returns ErrQueueClosed.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.closed = true
	if q.ch != nil {
		close(q.ch)
	}
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	q.observers = make(map[string][]*observer)
	q.index = make(map[uuid.UUID]*observer)
	q.mu.Unlock()

	q.logger.Debug("queue closed", logger.Queue(q.name))
	return nil
}

func (q *MemoryQueue) dispatchLoop() {
	defer q.wg.Done()

	for d := range q.ch {
		q.mu.RLock()
		targets := slices.Clone(q.observers[d.msg.Identifier])
		q.mu.RUnlock()

		_ = q.deliver(d.ctx, d.msg, targets)
	}
}

func (q *MemoryQueue) deliver(ctx context.Context, msg Message, targets []*observer) error {
	var errs []error
	for _, o := range targets {
		if err := safeHandle(ctx, o.handler, msg); err != nil {
			q.logger.ErrorContext(ctx, "handler failed",
				logger.Queue(q.name),
				logger.Identifier(msg.Identifier),
				logger.MessageID(msg.ID),
				logger.ObserverID(o.id),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("observer %s: %w", o.id, err))
		}
	}
	return errors.Join(errs...)
}
