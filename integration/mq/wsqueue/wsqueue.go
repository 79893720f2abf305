package wsqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
)

// Queue is an mq.PublishQueue over a websocket feed.
//
// Each text frame carries one mq envelope. Run reads frames and dispatches
// them to local observers; Publish writes frames to the peer.
type Queue struct {
	conn  *websocket.Conn
	local *mq.MemoryQueue

	name         string
	logger       *slog.Logger
	writeTimeout time.Duration
	header       http.Header

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to a websocket endpoint and wraps the connection.
func Dial(ctx context.Context, url string, opts ...Option) (*Queue, error) {
	q := newQueue(opts...)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, q.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}

	q.attach(conn)
	return q, nil
}

// New wraps an established connection. The queue takes ownership of conn.
func New(conn *websocket.Conn, opts ...Option) (*Queue, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}

	q := newQueue(opts...)
	q.attach(conn)
	return q, nil
}

func newQueue(opts ...Option) *Queue {
	q := &Queue{
		name:         "websocket",
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		writeTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) attach(conn *websocket.Conn) {
	q.conn = conn
	q.local = mq.NewMemoryQueue(mq.WithName(q.name), mq.WithLogger(q.logger))
}

// Name returns the queue name used in logs.
func (q *Queue) Name() string {
	return q.name
}

// Subscribe registers handler for identifier.
func (q *Queue) Subscribe(identifier string, handler mq.Handler) (mq.Observer, error) {
	return q.local.Subscribe(identifier, handler)
}

// Unsubscribe releases the observer.
func (q *Queue) Unsubscribe(obs mq.Observer) bool {
	return q.local.Unsubscribe(obs)
}

// Publish writes the message envelope as a text frame.
func (q *Queue) Publish(ctx context.Context, identifier string, payload any) error {
	if identifier == "" {
		return mq.ErrEmptyIdentifier
	}

	data, err := mq.Marshal(mq.NewMessage(identifier, payload))
	if err != nil {
		return err
	}

	q.writeMu.Lock()
	defer q.writeMu.Unlock()

	deadline := time.Time{}
	if q.writeTimeout > 0 {
		deadline = time.Now().Add(q.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	_ = q.conn.SetWriteDeadline(deadline)

	if err := q.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}

// Run reads frames until ctx is done or the peer closes the connection.
// A normal close from the peer returns nil.
func (q *Queue) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			// Unblock ReadMessage.
			_ = q.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		msgType, data, err := q.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Join(ErrReadFailed, err)
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		q.dispatch(ctx, data)
	}
}

// Close sends a close frame, closes the connection and releases every observer.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		q.writeMu.Lock()
		_ = q.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		q.writeMu.Unlock()

		q.closeErr = errors.Join(q.conn.Close(), q.local.Close())
	})
	return q.closeErr
}

func (q *Queue) dispatch(ctx context.Context, data []byte) {
	msg, err := mq.Unmarshal(data)
	if err != nil {
		q.logger.Warn("dropping invalid websocket frame",
			logger.Queue(q.name),
			logger.Error(err))
		return
	}

	if err := q.local.Dispatch(ctx, msg); err != nil && !errors.Is(err, mq.ErrQueueClosed) {
		q.logger.Debug("websocket message handlers failed",
			logger.Queue(q.name),
			logger.MessageID(msg.ID),
			logger.Error(err))
	}
}
