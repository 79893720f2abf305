package mq

import "log/slog"

// MemoryQueueOption configures a MemoryQueue.
type MemoryQueueOption func(*MemoryQueue)

// WithAsyncDelivery switches the queue to asynchronous delivery through a
// buffered channel of the given size. Non-positive sizes are ignored.
func WithAsyncDelivery(buffer int) MemoryQueueOption {
	return func(q *MemoryQueue) {
		if buffer > 0 {
			q.ch = make(chan delivery, buffer)
		}
	}
}

// WithName sets the queue name used in logs.
func WithName(name string) MemoryQueueOption {
	return func(q *MemoryQueue) {
		if name != "" {
			q.name = name
		}
	}
}

// WithLogger configures structured logging for the queue.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(l *slog.Logger) MemoryQueueOption {
	return func(q *MemoryQueue) {
		if l != nil {
			q.logger = l
		}
	}
}
