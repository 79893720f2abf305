package mq

import "log/slog"

// CompositeOption configures a CompositeQueue.
type CompositeOption func(*CompositeQueue)

// WithCompositeName sets the composite name used in logs.
func WithCompositeName(name string) CompositeOption {
	return func(c *CompositeQueue) {
		if name != "" {
			c.name = name
		}
	}
}

// WithCompositeLogger configures structured logging for the composite and
// its internal self queue.
func WithCompositeLogger(l *slog.Logger) CompositeOption {
	return func(c *CompositeQueue) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the collector that receives topology and operation metrics.
func WithMetrics(m MetricsCollector) CompositeOption {
	return func(c *CompositeQueue) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithRejectDuplicateChildren makes AddChild return ErrChildAlreadyAttached
// for a queue that is already attached, instead of adding a second entry.
func WithRejectDuplicateChildren() CompositeOption {
	return func(c *CompositeQueue) {
		c.rejectDuplicates = true
	}
}
