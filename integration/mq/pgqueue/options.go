package pgqueue

import "log/slog"

// Option configures a Queue.
type Option func(*Queue)

// WithChannel sets the LISTEN/NOTIFY channel name.
func WithChannel(channel string) Option {
	return func(q *Queue) {
		if channel != "" {
			q.channel = channel
		}
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
