package redisqueue_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamzdara/Sample-Codes/core/mq"
	"github.com/adamzdara/Sample-Codes/integration/database/redis"
	"github.com/adamzdara/Sample-Codes/integration/mq/redisqueue"
)

func unreachableClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := redisqueue.New(nil)
	assert.ErrorIs(t, err, redisqueue.ErrNilClient)

	q, err := redisqueue.New(unreachableClient(t), redisqueue.WithChannelPrefix("events:"), redisqueue.WithName("cache"))
	require.NoError(t, err)
	defer q.Close()

	assert.Equal(t, "events:ping", q.Channel("ping"))
	assert.Equal(t, "cache", q.Name())
}

func TestQueue_SubscribeFailurePropagates(t *testing.T) {
	t.Parallel()

	q, err := redisqueue.New(unreachableClient(t))
	require.NoError(t, err)
	defer q.Close()

	_, err = q.Subscribe("ping", func(context.Context, mq.Message) error { return nil })
	require.ErrorIs(t, err, redisqueue.ErrSubscribeFailed)

	t.Run("composite rolls back", func(t *testing.T) {
		composite := mq.NewCompositeQueue()
		defer composite.Close()

		healthy := mq.NewMemoryQueue()
		defer healthy.Close()

		require.NoError(t, composite.AddChild(healthy))
		require.NoError(t, composite.AddChild(q))

		_, err := composite.Subscribe("ping", func(context.Context, mq.Message) error { return nil })
		require.ErrorIs(t, err, redisqueue.ErrSubscribeFailed)

		assert.Zero(t, healthy.Len())
		assert.Zero(t, composite.Stats().Bindings)
	})
}

func TestQueue_Validation(t *testing.T) {
	t.Parallel()

	q, err := redisqueue.New(unreachableClient(t))
	require.NoError(t, err)

	_, err = q.Subscribe("", func(context.Context, mq.Message) error { return nil })
	assert.ErrorIs(t, err, mq.ErrEmptyIdentifier)

	_, err = q.Subscribe("ping", nil)
	assert.ErrorIs(t, err, mq.ErrNilHandler)

	assert.False(t, q.Unsubscribe(nil))
	assert.ErrorIs(t, q.Publish(context.Background(), "", nil), mq.ErrEmptyIdentifier)

	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Close(), mq.ErrQueueClosed)

	_, err = q.Subscribe("ping", func(context.Context, mq.Message) error { return nil })
	assert.ErrorIs(t, err, mq.ErrQueueClosed)
}

func TestQueue_Live(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: url, RetryAttempts: 1, RetryInterval: 100 * time.Millisecond})
	require.NoError(t, err)
	defer client.Close()

	q, err := redisqueue.New(client, redisqueue.WithChannelPrefix("test:"+t.Name()+":"))
	require.NoError(t, err)
	defer q.Close()

	runErr := make(chan error, 1)
	go func() { runErr <- q.Run(ctx) }()

	received := make(chan mq.Message, 4)
	first, err := q.Subscribe("ping", func(_ context.Context, msg mq.Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)
	second, err := q.Subscribe("ping", func(_ context.Context, msg mq.Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, q.Channel("ping")).Result()
		return err == nil && n[q.Channel("ping")] == 1
	}, 2*time.Second, 20*time.Millisecond, "one redis subscription shared by both observers")

	require.NoError(t, q.Publish(ctx, "ping", "hello"))
	for range 2 {
		select {
		case msg := <-received:
			got, err := mq.Decode[string](msg)
			require.NoError(t, err)
			assert.Equal(t, "hello", got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for redis delivery")
		}
	}

	require.True(t, q.Unsubscribe(first))
	require.True(t, q.Unsubscribe(second))
	assert.False(t, q.Unsubscribe(second))

	cancel()
	err = <-runErr
	assert.True(t, errors.Is(err, context.Canceled))
}
