package wsqueue

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Queue.
type Option func(*Queue)

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

// WithWriteTimeout bounds each frame write. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d >= 0 {
			q.writeTimeout = d
		}
	}
}

// WithHeader sets extra handshake headers used by Dial.
func WithHeader(h http.Header) Option {
	return func(q *Queue) {
		q.header = h
	}
}
