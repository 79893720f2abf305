package natsqueue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
)

// Connect opens a NATS connection using cfg.
func Connect(cfg Config, log *slog.Logger) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []nats.Option{
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", logger.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", logger.Key("url", c.ConnectedUrl()))
		}),
	}
	if cfg.ClientName != "" {
		opts = append(opts, nats.Name(cfg.ClientName))
	}
	if cfg.MaxReconnects > 0 {
		opts = append(opts, nats.MaxReconnects(cfg.MaxReconnects))
	}
	if cfg.ReconnectWait > 0 {
		opts = append(opts, nats.ReconnectWait(cfg.ReconnectWait))
	}
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnectTimeout))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}
	return conn, nil
}

// Queue is an mq.PublishQueue backed by core NATS subjects.
// Each observer owns one NATS subscription.
type Queue struct {
	conn   *nats.Conn
	prefix string
	name   string
	logger *slog.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   map[uuid.UUID]*observer
	closed bool
}

type observer struct {
	id         uuid.UUID
	identifier string
	sub        *nats.Subscription
}

func (o *observer) ID() uuid.UUID      { return o.id }
func (o *observer) Identifier() string { return o.identifier }

// New creates a queue on an existing connection. The caller owns conn.
func New(conn *nats.Conn, opts ...Option) (*Queue, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}

	q := &Queue{
		conn:   conn,
		prefix: "mq",
		name:   "nats",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		parent: context.Background(),
		subs:   make(map[uuid.UUID]*observer),
	}

	for _, opt := range opts {
		opt(q)
	}

	q.ctx, q.cancel = context.WithCancel(q.parent)

	return q, nil
}

// Name returns the queue name used in logs.
func (q *Queue) Name() string {
	return q.name
}

// Subject returns the NATS subject for identifier.
func (q *Queue) Subject(identifier string) string {
	if q.prefix == "" {
		return identifier
	}
	return q.prefix + "." + identifier
}

// Subscribe creates a NATS subscription that decodes envelopes and calls handler.
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

	o := &observer{id: uuid.New(), identifier: identifier}
	subject := q.Subject(identifier)

	h := mq.Recover()(handler)
	sub, err := q.conn.Subscribe(subject, func(m *nats.Msg) {
		q.handle(o, h, m)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, subject, err)
	}
	o.sub = sub
	q.subs[o.id] = o

	q.logger.Debug("nats observer subscribed",
		logger.Queue(q.name),
		logger.Channel(subject),
		logger.ObserverID(o.id))

	return o, nil
}

// Unsubscribe drops the observer's NATS subscription.
func (q *Queue) Unsubscribe(obs mq.Observer) bool {
	if obs == nil {
		return false
	}

	q.mu.Lock()
	o, ok := q.subs[obs.ID()]
	if !ok || mq.Observer(o) != obs {
		q.mu.Unlock()
		return false
	}
	delete(q.subs, o.id)
	q.mu.Unlock()

	if err := o.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		q.logger.Warn("nats unsubscribe failed",
			logger.Queue(q.name),
			logger.ObserverID(o.id),
			logger.Error(err))
	}
	return true
}

// Publish sends an envelope to the identifier's subject.
func (q *Queue) Publish(ctx context.Context, identifier string, payload any) error {
	if identifier == "" {
		return mq.ErrEmptyIdentifier
	}

	data, err := mq.Marshal(mq.NewMessage(identifier, payload))
	if err != nil {
		return err
	}

	if err := q.conn.Publish(q.Subject(identifier), data); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Close drops every subscription and cancels the handler context.
// The connection stays open.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return mq.ErrQueueClosed
	}
	q.closed = true
	subs := q.subs
	q.subs = make(map[uuid.UUID]*observer)
	q.mu.Unlock()

	var errs []error
	for _, o := range subs {
		if err := o.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, err)
		}
	}
	q.cancel()

	return errors.Join(errs...)
}

func (q *Queue) handle(o *observer, handler mq.Handler, m *nats.Msg) {
	msg, err := mq.Unmarshal(m.Data)
	if err != nil {
		q.logger.Warn("dropping invalid nats message",
			logger.Queue(q.name),
			logger.Channel(m.Subject),
			logger.Error(err))
		return
	}

	if err := handler(q.ctx, msg); err != nil {
		q.logger.Error("nats handler failed",
			logger.Queue(q.name),
			logger.ObserverID(o.id),
			logger.MessageID(msg.ID),
			logger.Error(err))
	}
}
