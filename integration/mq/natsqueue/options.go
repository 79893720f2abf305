package natsqueue

import (
	"context"
	"log/slog"
)

// Option configures a Queue.
type Option func(*Queue)

// WithSubjectPrefix sets the subject prefix. Observers of identifier "x"
// subscribe to "<prefix>.x"; an empty prefix uses the identifier as is.
func WithSubjectPrefix(prefix string) Option {
	return func(q *Queue) {
		q.prefix = prefix
	}
}

// WithName sets the queue name used in logs.
func WithName(name string) Option {
	return func(q *Queue) {
		if name != "" {
			q.name = name
		}
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithContext sets the context passed to handlers. It is canceled by Close.
func WithContext(ctx context.Context) Option {
	return func(q *Queue) {
		if ctx != nil {
			q.parent = ctx
		}
	}
}
