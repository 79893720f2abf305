// Package mq provides in-process message queues and a composite queue that
// aggregates many queues behind a single subscription point.
//
// # Core Components
//
// Queue is the single-queue subscription capability: Subscribe registers a
// Handler for a message identifier and returns an Observer handle; Unsubscribe
// releases the handle and reports whether it was active.
//
// MemoryQueue is the in-memory Queue. It delivers synchronously by default and
// asynchronously through a buffered channel with WithAsyncDelivery.
//
// CompositeQueue fans one subscription out to a mutable set of child queues.
// Every observer holds exactly one child subscription per attached child, and
// children attached later are picked up automatically. The composite is itself
// a Queue, so composites can be nested.
//
// # Basic Usage
//
//	orders := mq.NewMemoryQueue(mq.WithName("orders"))
//	billing := mq.NewMemoryQueue(mq.WithName("billing"))
//
//	composite := mq.NewCompositeQueue(mq.WithCompositeLogger(logger))
//	defer composite.Close()
//
//	_ = composite.AddChild(orders)
//
//	obs, err := composite.Subscribe("ping", func(ctx context.Context, msg mq.Message) error {
//		logger.Info("received", "id", msg.ID, "identifier", msg.Identifier)
//		return nil
//	})
//	if err != nil {
//		return err
//	}
//
//	// Children attached after subscribing are observed too
//	_ = composite.AddChild(billing)
//
//	_ = orders.Publish(ctx, "ping", nil)  // delivered
//	_ = billing.Publish(ctx, "ping", nil) // delivered
//
//	composite.RemoveChild(orders)
//	_ = orders.Publish(ctx, "ping", nil) // not delivered
//
//	composite.Unsubscribe(obs)
//
// # Delivery
//
// The composite is never on the delivery path: a publish on a child goes
// through that child's own dispatch straight to the handler. Ordering is
// therefore per child; no ordering is promised across children.
//
// # Duplicate Children
//
// Attaching a queue that is already attached adds a second entry and a second
// subscription per observer, so its messages are delivered twice. RemoveChild
// detaches one entry at a time. WithRejectDuplicateChildren turns duplicate
// attaches into ErrChildAlreadyAttached.
//
// # Failures
//
// Subscribe and AddChild are all-or-nothing: if a child rejects a subscription,
// the subscriptions made earlier in the same call are released before the
// error is returned.
//
// # Middleware
//
// Handlers compose with Chain. Logging, Timeout, Retry and Recover cover the
// common cases:
//
//	h := mq.Chain(handle,
//		mq.Logging(log),
//		mq.Retry(3, 100*time.Millisecond),
//		mq.Timeout(5*time.Second),
//	)
//
// # Metrics
//
// WithMetrics reports topology gauges and operation counters to a
// MetricsCollector. NewPrometheusMetrics registers Prometheus collectors.
//
// # Wire Format
//
// Marshal and Unmarshal encode messages as JSON envelopes for the network
// adapters under integration/mq. Decode converts a payload to a concrete type.
package mq
