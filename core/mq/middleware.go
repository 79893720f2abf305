package mq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/adamzdara/Sample-Codes/core/logger"
)

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Chain applies middleware to h. The first middleware is the outermost.
//
// Example:
//
//	h := mq.Chain(handle, mq.Logging(log), mq.Timeout(5*time.Second))
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Logging logs every handled message with its duration and error.
func Logging(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) error {
			start := time.Now()
			err := next(ctx, msg)

			if err != nil {
				log.ErrorContext(ctx, "message handling failed",
					logger.Identifier(msg.Identifier),
					logger.MessageID(msg.ID),
					logger.Elapsed(start),
					logger.Error(err))
				return err
			}

			log.DebugContext(ctx, "message handled",
				logger.Identifier(msg.Identifier),
				logger.MessageID(msg.ID),
				logger.Elapsed(start))
			return nil
		}
	}
}

// Timeout bounds each handler call. Non-positive durations disable it.
func Timeout(d time.Duration) Middleware {
	return func(next Handler) Handler {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, msg Message) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, msg)
		}
	}
}

// Retry re-runs a failing handler up to maxRetries more times with
// exponential backoff starting at base. Non-positive maxRetries disables it.
func Retry(maxRetries int, base time.Duration) Middleware {
	return func(next Handler) Handler {
		if maxRetries <= 0 {
			return next
		}
		return func(ctx context.Context, msg Message) error {
			backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewExponential(max(base, time.Millisecond)))

			attempts := 0
			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				attempts++
				if err := next(ctx, msg); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed after %d attempts: %w", attempts, err)
			}
			return nil
		}
	}
}

// Recover converts a handler panic into an ErrHandlerPanicked error.
// Adapters that call handlers directly use it to keep their delivery goroutine alive.
func Recover() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) error {
			return safeHandle(ctx, next, msg)
		}
	}
}
