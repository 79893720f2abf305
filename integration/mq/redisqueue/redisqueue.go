package redisqueue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
)

// Queue is an mq.PublishQueue backed by Redis Pub/Sub.
//
// All observers share one PubSub connection. The first observer of an
// identifier subscribes its channel and the last one to leave unsubscribes it.
// Received messages are dispatched to local observers by Run.
type Queue struct {
	client redis.UniversalClient
	pubsub *redis.PubSub
	local  *mq.MemoryQueue

	prefix string
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	refs   map[string]int
	closed bool
}

// New creates a queue on client. The caller owns client.
func New(client redis.UniversalClient, opts ...Option) (*Queue, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	q := &Queue{
		client: client,
		prefix: "mq:",
		name:   "redis",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		refs:   make(map[string]int),
	}

	for _, opt := range opts {
		opt(q)
	}

	q.local = mq.NewMemoryQueue(mq.WithName(q.name), mq.WithLogger(q.logger))
	q.pubsub = client.Subscribe(context.Background())

	return q, nil
}

// Name returns the queue name used in logs.
func (q *Queue) Name() string {
	return q.name
}

// Channel returns the Redis channel for identifier.
func (q *Queue) Channel(identifier string) string {
	return q.prefix + identifier
}

// Subscribe registers handler for identifier, subscribing the Redis channel
// if this is its first observer.
func (q *Queue) Subscribe(identifier string, handler mq.Handler) (mq.Observer, error) {
	if identifier == "" {
		return nil, mq.ErrEmptyIdentifier
	}
	if handler == nil {
		return nil, mq.ErrNilHandler
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, mq.ErrQueueClosed
	}

	channel := q.Channel(identifier)
	if q.refs[identifier] == 0 {
		if err := q.pubsub.Subscribe(context.Background(), channel); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrSubscribeFailed, channel, err)
		}
		q.logger.Debug("redis channel subscribed", logger.Queue(q.name), logger.Channel(channel))
	}

	obs, err := q.local.Subscribe(identifier, handler)
	if err != nil {
		if q.refs[identifier] == 0 {
			q.unsubscribeChannel(channel)
		}
		return nil, err
	}
	q.refs[identifier]++

	return obs, nil
}

// Unsubscribe releases the observer, unsubscribing the Redis channel when no
// observers of its identifier remain.
func (q *Queue) Unsubscribe(obs mq.Observer) bool {
	if obs == nil {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.local.Unsubscribe(obs) {
		return false
	}

	identifier := obs.Identifier()
	q.refs[identifier]--
	if q.refs[identifier] <= 0 {
		delete(q.refs, identifier)
		if !q.closed {
			q.unsubscribeChannel(q.Channel(identifier))
		}
	}
	return true
}

// Publish sends an envelope to the identifier's channel.
func (q *Queue) Publish(ctx context.Context, identifier string, payload any) error {
	if identifier == "" {
		return mq.ErrEmptyIdentifier
	}

	data, err := mq.Marshal(mq.NewMessage(identifier, payload))
	if err != nil {
		return err
	}

	if err := q.client.Publish(ctx, q.Channel(identifier), data).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Run receives messages and dispatches them to local observers until ctx is
// done or the queue is closed.
func (q *Queue) Run(ctx context.Context) error {
	ch := q.pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			q.dispatch(ctx, m)
		}
	}
}

// Close closes the PubSub connection and releases every observer.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return mq.ErrQueueClosed
	}
	q.closed = true
	q.refs = make(map[string]int)
	q.mu.Unlock()

	return errors.Join(q.pubsub.Close(), q.local.Close())
}

func (q *Queue) dispatch(ctx context.Context, m *redis.Message) {
	msg, err := mq.Unmarshal([]byte(m.Payload))
	if err != nil {
		q.logger.Warn("dropping invalid redis message",
			logger.Queue(q.name),
			logger.Channel(m.Channel),
			logger.Error(err))
		return
	}

	// The channel is authoritative when the envelope disagrees with it.
	if id := strings.TrimPrefix(m.Channel, q.prefix); id != msg.Identifier {
		msg.Identifier = id
	}

	if err := q.local.Dispatch(ctx, msg); err != nil && !errors.Is(err, mq.ErrQueueClosed) {
		q.logger.Debug("redis message handlers failed",
			logger.Queue(q.name),
			logger.MessageID(msg.ID),
			logger.Error(err))
	}
}

func (q *Queue) unsubscribeChannel(channel string) {
	if err := q.pubsub.Unsubscribe(context.Background(), channel); err != nil {
		q.logger.Warn("redis channel unsubscribe failed",
			logger.Queue(q.name),
			logger.Channel(channel),
			logger.Error(err))
		return
	}
	q.logger.Debug("redis channel unsubscribed", logger.Queue(q.name), logger.Channel(channel))
}
