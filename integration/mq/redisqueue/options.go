package redisqueue

import "log/slog"

// Option configures a Queue.
type Option func(*Queue)

// WithChannelPrefix sets the prefix prepended to identifiers to form Redis
// channel names.
func WithChannelPrefix(prefix string) Option {
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
