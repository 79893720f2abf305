package mq_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

func TestMemoryQueue_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("validates arguments", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		_, err := q.Subscribe("", func(context.Context, mq.Message) error { return nil })
		assert.ErrorIs(t, err, mq.ErrEmptyIdentifier)

		_, err = q.Subscribe("ping", nil)
		assert.ErrorIs(t, err, mq.ErrNilHandler)
	})

	t.Run("returns distinct observers", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		var c counter
		a, err := q.Subscribe("ping", c.handler())
		require.NoError(t, err)
		b, err := q.Subscribe("ping", c.handler())
		require.NoError(t, err)

		assert.NotEqual(t, a.ID(), b.ID())
		assert.Equal(t, "ping", a.Identifier())
		assert.Equal(t, 2, q.Count("ping"))
		assert.Equal(t, 2, q.Len())
	})

	t.Run("rejects after close", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		require.NoError(t, q.Close())

		_, err := q.Subscribe("ping", func(context.Context, mq.Message) error { return nil })
		assert.ErrorIs(t, err, mq.ErrQueueClosed)
		assert.ErrorIs(t, q.Close(), mq.ErrQueueClosed)
	})
}

func TestMemoryQueue_Unsubscribe(t *testing.T) {
	t.Parallel()

	q := mq.NewMemoryQueue()
	defer q.Close()

	var c counter
	obs, err := q.Subscribe("ping", c.handler())
	require.NoError(t, err)

	assert.True(t, q.Unsubscribe(obs))
	assert.False(t, q.Unsubscribe(obs), "second release must report false")
	assert.False(t, q.Unsubscribe(nil))

	publish(t, q, "ping")
	assert.Zero(t, c.load())
	assert.Zero(t, q.Len())

	t.Run("observer from another queue", func(t *testing.T) {
		other := mq.NewMemoryQueue()
		defer other.Close()

		foreign, err := other.Subscribe("ping", c.handler())
		require.NoError(t, err)

		assert.False(t, q.Unsubscribe(foreign))
		assert.Equal(t, 1, other.Count("ping"))
	})
}

func TestMemoryQueue_Publish(t *testing.T) {
	t.Parallel()

	t.Run("delivers only to matching identifier", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		var ping, pong counter
		_, err := q.Subscribe("ping", ping.handler())
		require.NoError(t, err)
		_, err = q.Subscribe("pong", pong.handler())
		require.NoError(t, err)

		publish(t, q, "ping")
		publish(t, q, "ping")

		assert.Equal(t, int64(2), ping.load())
		assert.Zero(t, pong.load())
	})

	t.Run("passes payload and metadata", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		var got mq.Message
		_, err := q.Subscribe("user.created", func(_ context.Context, msg mq.Message) error {
			got = msg
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, q.Publish(context.Background(), "user.created", map[string]string{"id": "42"}))

		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "user.created", got.Identifier)
		assert.Equal(t, map[string]string{"id": "42"}, got.Payload)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("joins handler errors and keeps delivering", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		errFirst := errors.New("first failed")
		var c counter
		_, err := q.Subscribe("ping", func(context.Context, mq.Message) error { return errFirst })
		require.NoError(t, err)
		_, err = q.Subscribe("ping", c.handler())
		require.NoError(t, err)

		err = q.Publish(context.Background(), "ping", nil)
		assert.ErrorIs(t, err, errFirst)
		assert.Equal(t, int64(1), c.load())
	})

	t.Run("recovers handler panics", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		_, err := q.Subscribe("ping", func(context.Context, mq.Message) error { panic("boom") })
		require.NoError(t, err)

		err = q.Publish(context.Background(), "ping", nil)
		assert.ErrorIs(t, err, mq.ErrHandlerPanicked)
	})

	t.Run("rejects empty identifier and closed queue", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		assert.ErrorIs(t, q.Publish(context.Background(), "", nil), mq.ErrEmptyIdentifier)

		require.NoError(t, q.Close())
		assert.ErrorIs(t, q.Publish(context.Background(), "ping", nil), mq.ErrQueueClosed)
	})

	t.Run("handler may unsubscribe itself", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue()
		defer q.Close()

		var (
			obs   mq.Observer
			calls int
		)
		obs, err := q.Subscribe("ping", func(context.Context, mq.Message) error {
			calls++
			q.Unsubscribe(obs)
			return nil
		})
		require.NoError(t, err)

		publish(t, q, "ping")
		publish(t, q, "ping")
		assert.Equal(t, 1, calls)
	})
}

func TestMemoryQueue_Dispatch(t *testing.T) {
	t.Parallel()

	q := mq.NewMemoryQueue()
	defer q.Close()

	var got mq.Message
	_, err := q.Subscribe("ping", func(_ context.Context, msg mq.Message) error {
		got = msg
		return nil
	})
	require.NoError(t, err)

	msg := mq.NewMessage("ping", "hello")
	require.NoError(t, q.Dispatch(context.Background(), msg))
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.CreatedAt, got.CreatedAt)

	assert.ErrorIs(t, q.Dispatch(context.Background(), mq.Message{}), mq.ErrEmptyIdentifier)
}

func TestMemoryQueue_AsyncDelivery(t *testing.T) {
	t.Parallel()

	t.Run("delivers in publish order", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue(mq.WithAsyncDelivery(16))
		defer q.Close()

		var (
			mu  sync.Mutex
			got []int
		)
		done := make(chan struct{})
		_, err := q.Subscribe("seq", func(_ context.Context, msg mq.Message) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, msg.Payload.(int))
			if len(got) == 5 {
				close(done)
			}
			return nil
		})
		require.NoError(t, err)

		for i := range 5 {
			require.NoError(t, q.Publish(context.Background(), "seq", i))
		}

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for async delivery")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	})

	t.Run("reports full buffer", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue(mq.WithAsyncDelivery(1))

		release := make(chan struct{})
		started := make(chan struct{}, 1)
		_, err := q.Subscribe("slow", func(context.Context, mq.Message) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return nil
		})
		require.NoError(t, err)

		// First message occupies the dispatcher, second fills the buffer.
		require.NoError(t, q.Publish(context.Background(), "slow", nil))
		<-started
		require.NoError(t, q.Publish(context.Background(), "slow", nil))

		assert.ErrorIs(t, q.Publish(context.Background(), "slow", nil), mq.ErrBufferFull)

		close(release)
		require.NoError(t, q.Close())
	})

	t.Run("close drains buffered messages", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue(mq.WithAsyncDelivery(10))

		var c counter
		_, err := q.Subscribe("ping", c.handler())
		require.NoError(t, err)

		for range 10 {
			require.NoError(t, q.Publish(context.Background(), "ping", nil))
		}
		require.NoError(t, q.Close())

		assert.Equal(t, int64(10), c.load())
	})

	t.Run("ignores non-positive buffer", func(t *testing.T) {
		t.Parallel()

		q := mq.NewMemoryQueue(mq.WithAsyncDelivery(0))
		defer q.Close()

		var c counter
		_, err := q.Subscribe("ping", c.handler())
		require.NoError(t, err)

		publish(t, q, "ping")
		assert.Equal(t, int64(1), c.load(), "queue stays synchronous")
	})
}
