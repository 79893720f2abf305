package mq_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

var errChildRejected = errors.New("child rejected subscription")

// trackingQueue wraps a MemoryQueue and counts child-level subscriptions.
// It can be told to reject the Nth Subscribe call.
type trackingQueue struct {
	*mq.MemoryQueue

	mu           sync.Mutex
	live         map[mq.Observer]struct{}
	subscribes   int
	unsubscribes int
	failOn       int // 1-based Subscribe call to reject, 0 never
}

func newTrackingQueue(name string) *trackingQueue {
	return &trackingQueue{
		MemoryQueue: mq.NewMemoryQueue(mq.WithName(name)),
		live:        make(map[mq.Observer]struct{}),
	}
}

func (q *trackingQueue) Subscribe(identifier string, handler mq.Handler) (mq.Observer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.subscribes++
	if q.failOn > 0 && q.subscribes == q.failOn {
		return nil, errChildRejected
	}

	obs, err := q.MemoryQueue.Subscribe(identifier, handler)
	if err != nil {
		return nil, err
	}
	q.live[obs] = struct{}{}
	return obs, nil
}

func (q *trackingQueue) Unsubscribe(obs mq.Observer) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.unsubscribes++
	delete(q.live, obs)
	return q.MemoryQueue.Unsubscribe(obs)
}

func (q *trackingQueue) failNext(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failOn = q.subscribes + n
}

func (q *trackingQueue) liveCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.live)
}

// counter records how many messages each handler received.
type counter struct {
	n atomic.Int64
}

func (c *counter) handler() mq.Handler {
	return func(context.Context, mq.Message) error {
		c.n.Add(1)
		return nil
	}
}

func (c *counter) load() int64 {
	return c.n.Load()
}

func publish(t *testing.T, q mq.Publisher, identifier string) {
	t.Helper()
	if err := q.Publish(context.Background(), identifier, nil); err != nil {
		t.Fatalf("publish %q: %v", identifier, err)
	}
}
