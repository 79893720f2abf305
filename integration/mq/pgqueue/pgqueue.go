package pgqueue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
	"github.com/adamzdara/Sample-Codes/integration/database/pg"
)

// MaxPayloadSize is the largest NOTIFY payload PostgreSQL accepts by default.
const MaxPayloadSize = 7999

// Queue is an mq.PublishQueue backed by PostgreSQL LISTEN/NOTIFY.
//
// All identifiers share one channel. Observers are registered locally, so
// Subscribe and Unsubscribe never touch the database; Run holds a dedicated
// connection that LISTENs and dispatches notifications.
type Queue struct {
	pool    *pgxpool.Pool
	local   *mq.MemoryQueue
	channel string
	name    string
	logger  *slog.Logger

	running atomic.Bool
}

// New creates a queue on pool. The caller owns pool.
func New(pool *pgxpool.Pool, opts ...Option) (*Queue, error) {
	if pool == nil {
		return nil, ErrNilPool
	}

	q := &Queue{
		pool:    pool,
		channel: "mq_messages",
		name:    "postgres",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(q)
	}

	q.local = mq.NewMemoryQueue(mq.WithName(q.name), mq.WithLogger(q.logger))

	return q, nil
}

// Name returns the queue name used in logs.
func (q *Queue) Name() string {
	return q.name
}

// Channel returns the LISTEN/NOTIFY channel name.
func (q *Queue) Channel() string {
	return q.channel
}

// Subscribe registers handler for identifier.
func (q *Queue) Subscribe(identifier string, handler mq.Handler) (mq.Observer, error) {
	return q.local.Subscribe(identifier, handler)
}

// Unsubscribe releases the observer.
func (q *Queue) Unsubscribe(obs mq.Observer) bool {
	return q.local.Unsubscribe(obs)
}

// Publish sends the message envelope with pg_notify. When ctx carries a
// transaction (see pg.WithTx) the notification is delivered on commit.
func (q *Queue) Publish(ctx context.Context, identifier string, payload any) error {
	if identifier == "" {
		return mq.ErrEmptyIdentifier
	}

	data, err := mq.Marshal(mq.NewMessage(identifier, payload))
	if err != nil {
		return err
	}
	if len(data) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	if _, err := pg.Executor(ctx, q.pool).Exec(ctx, "SELECT pg_notify($1, $2)", q.channel, string(data)); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Run LISTENs on the channel and dispatches notifications until ctx is done.
// Only one Run may be active at a time.
func (q *Queue) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrAlreadyListening
	}
	defer q.running.Store(false)

	conn, err := q.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrListenFailed, err)
	}
	defer conn.Release()

	ident := pgx.Identifier{q.channel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+ident); err != nil {
		return errors.Join(ErrListenFailed, err)
	}
	defer func() {
		// Connection goes back to the pool; it must not keep listening.
		if _, err := conn.Exec(context.Background(), "UNLISTEN "+ident); err != nil {
			q.logger.Warn("unlisten failed", logger.Queue(q.name), logger.Channel(q.channel), logger.Error(err))
		}
	}()

	q.logger.Info("listening", logger.Queue(q.name), logger.Channel(q.channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		q.dispatch(ctx, n.Payload)
	}
}

// Close releases every observer. The pool stays open.
func (q *Queue) Close() error {
	return q.local.Close()
}

func (q *Queue) dispatch(ctx context.Context, payload string) {
	msg, err := mq.Unmarshal([]byte(payload))
	if err != nil {
		q.logger.Warn("dropping invalid notification",
			logger.Queue(q.name),
			logger.Channel(q.channel),
			logger.Error(err))
		return
	}

	if err := q.local.Dispatch(ctx, msg); err != nil && !errors.Is(err, mq.ErrQueueClosed) {
		q.logger.Debug("notification handlers failed",
			logger.Queue(q.name),
			logger.MessageID(msg.ID),
			logger.Error(err))
	}
}
