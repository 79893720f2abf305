package mq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/adamzdara/Sample-Codes/core/logger"
)

// CompositeQueue presents one subscription point over a mutable set of child queues.
//
// Every observer subscribed to the composite holds exactly one child-level
// subscription (a binding) per attached child, including children attached
// after the observer subscribed. Messages flow from a child straight to the
// observer's handler; the composite only manages subscriptions.
//
// All mutating operations are serialized by a single mutex. Child Subscribe and
// Unsubscribe calls run while the lock is held, so children must not call back
// into the composite from those methods. Attaching composites in a cycle is not
// supported.
//
// CompositeQueue implements Queue, so composites can be nested.
type CompositeQueue struct {
	mu        sync.Mutex
	self      *MemoryQueue
	children  []attachment
	observers map[uuid.UUID]*compositeObserver
	order     []*compositeObserver
	bindings  map[bindingKey]*childBinding
	closed    bool

	name             string
	rejectDuplicates bool
	logger           *slog.Logger
	metrics          MetricsCollector
}

// CompositeStats is a snapshot of the composite topology.
type CompositeStats struct {
	Observers int // Active composite observers
	Children  int // Attached child entries (duplicates counted separately)
	Bindings  int // Live child-level subscriptions
}

// NewCompositeQueue creates an empty composite queue.
//
// Example:
//
//	composite := mq.NewCompositeQueue(mq.WithCompositeLogger(logger))
//	composite.AddChild(ordersQueue)
//	composite.AddChild(billingQueue)
//
//	obs, err := composite.Subscribe("invoice.paid", handler)
func NewCompositeQueue(opts ...CompositeOption) *CompositeQueue {
	c := &CompositeQueue{
		observers: make(map[uuid.UUID]*compositeObserver),
		bindings:  make(map[bindingKey]*childBinding),
		name:      "composite",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   NoopMetrics{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.self = NewMemoryQueue(WithName(c.name), WithLogger(c.logger))

	return c
}

// Name returns the composite name used in logs.
func (c *CompositeQueue) Name() string {
	return c.name
}

// Subscribe registers handler for messages with the given identifier on the
// composite itself and on every attached child.
//
// If a child rejects the subscription, subscriptions made earlier in the same
// call are released and the child's error is returned.
func (c *CompositeQueue) Subscribe(identifier string, handler Handler) (obs Observer, err error) {
	if err := validateSubscription(identifier, handler); err != nil {
		c.metrics.RecordOperation(OpSubscribe, false)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.recordLocked(OpSubscribe, err == nil) }()

	if c.closed {
		return nil, ErrQueueClosed
	}

	o := &compositeObserver{
		id:         uuid.New(),
		identifier: identifier,
		handler:    handler,
	}

	o.self, err = c.self.Subscribe(identifier, handler)
	if err != nil {
		return nil, fmt.Errorf("self subscription: %w", err)
	}

	created := make([]bindingKey, 0, len(c.children))
	for i, child := range c.children {
		key, err := c.bindLocked(o, child)
		if err != nil {
			c.releaseLocked(created)
			c.self.Unsubscribe(o.self)
			c.logger.Error("subscription rolled back",
				logger.Queue(c.name),
				logger.Identifier(identifier),
				logger.ChildID(child.id),
				logger.Error(err))
			return nil, fmt.Errorf("subscribe to child %d (%s): %w", i, queueName(child.queue), err)
		}
		created = append(created, key)
	}

	c.observers[o.id] = o
	c.order = append(c.order, o)

	c.logger.Debug("composite observer subscribed",
		logger.Queue(c.name),
		logger.Identifier(identifier),
		logger.ObserverID(o.id),
		logger.Count("bindings", len(created)))

	return o, nil
}

// Unsubscribe releases a composite observer together with all of its child
// subscriptions. It returns false when the observer is unknown, belongs to a
// different queue, or was already released.
func (c *CompositeQueue) Unsubscribe(obs Observer) (ok bool) {
	if obs == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.recordLocked(OpUnsubscribe, ok) }()

	o, found := c.observers[obs.ID()]
	if !found || Observer(o) != obs {
		return false
	}

	c.removeObserverLocked(o)

	c.logger.Debug("composite observer unsubscribed",
		logger.Queue(c.name),
		logger.Identifier(o.identifier),
		logger.ObserverID(o.id))

	return true
}

// AddChild attaches a child queue and extends every active subscription to it.
//
// Attaching a queue that is already a child creates a second entry, so each
// observer receives that queue's messages twice; use WithRejectDuplicateChildren
// to return ErrChildAlreadyAttached instead. If the child rejects one of the
// subscriptions, the ones made in this call are released, the child is not
// attached and the error is returned.
func (c *CompositeQueue) AddChild(queue Queue) (err error) {
	if queue == nil {
		c.metrics.RecordOperation(OpAddChild, false)
		return ErrNilQueue
	}
	if cq, ok := queue.(*CompositeQueue); ok && cq == c {
		c.metrics.RecordOperation(OpAddChild, false)
		return ErrSelfAttach
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.recordLocked(OpAddChild, err == nil) }()

	if c.closed {
		return ErrQueueClosed
	}

	if c.rejectDuplicates && c.indexLocked(queue) >= 0 {
		return ErrChildAlreadyAttached
	}

	child := attachment{id: uuid.New(), queue: queue}

	created := make([]bindingKey, 0, len(c.order))
	for _, o := range c.order {
		key, err := c.bindLocked(o, child)
		if err != nil {
			c.releaseLocked(created)
			c.logger.Error("child attach rolled back",
				logger.Queue(c.name),
				logger.Key("child", queueName(queue)),
				logger.ObserverID(o.id),
				logger.Error(err))
			return fmt.Errorf("subscribe observer %s to child %s: %w", o.id, queueName(queue), err)
		}
		created = append(created, key)
	}

	c.children = append(c.children, child)

	c.logger.Debug("child attached",
		logger.Queue(c.name),
		logger.Key("child", queueName(queue)),
		logger.ChildID(child.id),
		logger.Count("bindings", len(created)))

	return nil
}

// RemoveChild detaches the first attached entry of queue and releases the
// corresponding subscription of every observer. Removing a queue that is not
// attached does nothing.
func (c *CompositeQueue) RemoveChild(queue Queue) {
	if queue == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(queue)
	if idx < 0 {
		c.recordLocked(OpRemoveChild, false)
		return
	}

	child := c.children[idx]
	c.children = slices.Delete(c.children, idx, idx+1)

	for _, o := range c.order {
		c.releaseLocked([]bindingKey{{observer: o.id, child: child.id}})
	}

	c.recordLocked(OpRemoveChild, true)

	c.logger.Debug("child detached",
		logger.Queue(c.name),
		logger.Key("child", queueName(queue)),
		logger.ChildID(child.id))
}

// Publish delivers a message to the composite's own observers.
// Child queues are not involved; publish on a child to reach it.
func (c *CompositeQueue) Publish(ctx context.Context, identifier string, payload any) error {
	return c.self.Publish(ctx, identifier, payload)
}

// Children returns the attached child queues in attach order.
func (c *CompositeQueue) Children() []Queue {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Queue, len(c.children))
	for i, child := range c.children {
		out[i] = child.queue
	}
	return out
}

// Stats returns the current topology counts.
func (c *CompositeQueue) Stats() CompositeStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CompositeStats{
		Observers: len(c.observers),
		Children:  len(c.children),
		Bindings:  len(c.bindings),
	}
}

// BindingCount returns the number of child subscriptions held by obs.
// For an active observer it equals the number of attached children.
func (c *CompositeQueue) BindingCount(obs Observer) int {
	if obs == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, child := range c.children {
		if _, ok := c.bindings[bindingKey{observer: obs.ID(), child: child.id}]; ok {
			n++
		}
	}
	return n
}

// Close releases every observer and child subscription and detaches all children.
// Subsequent Subscribe and AddChild calls return ErrQueueClosed.
func (c *CompositeQueue) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrQueueClosed
	}
	c.closed = true

	for len(c.order) > 0 {
		c.removeObserverLocked(c.order[0])
	}
	c.children = nil
	c.recordLocked(OpClose, true)
	c.mu.Unlock()

	c.logger.Debug("composite closed", logger.Queue(c.name))

	return c.self.Close()
}

func (c *CompositeQueue) bindLocked(o *compositeObserver, child attachment) (bindingKey, error) {
	key := bindingKey{observer: o.id, child: child.id}

	handle, err := child.queue.Subscribe(o.identifier, o.handler)
	if err != nil {
		return key, err
	}

	c.bindings[key] = &childBinding{queue: child.queue, handle: handle}
	return key, nil
}

func (c *CompositeQueue) releaseLocked(keys []bindingKey) {
	for _, key := range keys {
		b, ok := c.bindings[key]
		if !ok {
			continue
		}
		delete(c.bindings, key)

		if !b.release() {
			c.logger.Warn("child subscription was not active",
				logger.Queue(c.name),
				logger.Key("child", queueName(b.queue)),
				logger.ObserverID(key.observer),
				logger.ChildID(key.child))
		}
	}
}

func (c *CompositeQueue) removeObserverLocked(o *compositeObserver) {
	delete(c.observers, o.id)
	c.order = slices.DeleteFunc(c.order, func(x *compositeObserver) bool {
		return x == o
	})

	keys := make([]bindingKey, 0, len(c.children))
	for _, child := range c.children {
		keys = append(keys, bindingKey{observer: o.id, child: child.id})
	}
	c.releaseLocked(keys)

	c.self.Unsubscribe(o.self)
}

func (c *CompositeQueue) indexLocked(queue Queue) int {
	return slices.IndexFunc(c.children, func(a attachment) bool {
		return a.queue == queue
	})
}

func (c *CompositeQueue) recordLocked(op string, success bool) {
	c.metrics.RecordOperation(op, success)
	c.metrics.SetTopology(len(c.observers), len(c.children), len(c.bindings))
}
