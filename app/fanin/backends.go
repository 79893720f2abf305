package fanin

import (
	"context"
	"fmt"

	"github.com/adamzdara/Sample-Codes/core/health"
	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
	"github.com/adamzdara/Sample-Codes/integration/database/pg"
	"github.com/adamzdara/Sample-Codes/integration/database/redis"
	"github.com/adamzdara/Sample-Codes/integration/mq/natsqueue"
	"github.com/adamzdara/Sample-Codes/integration/mq/pgqueue"
	"github.com/adamzdara/Sample-Codes/integration/mq/redisqueue"
	"github.com/adamzdara/Sample-Codes/integration/mq/wsqueue"
)

// runner is a child queue with a receive loop.
type runner interface {
	Run(ctx context.Context) error
}

// backend is one connected child queue plus what it takes to run and close it.
type backend struct {
	name   string
	queue  mq.Queue
	run    func(context.Context) error
	check  health.Check
	closer func() error
}

// connectBackends connects every configured backend. On error the backends
// connected so far are returned so the caller can close them.
func (a *App) connectBackends(ctx context.Context) ([]backend, error) {
	var out []backend

	if a.config.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return out, fmt.Errorf("redis: %w", err)
		}
		q, err := redisqueue.New(client,
			redisqueue.WithChannelPrefix(a.config.RedisChannelPrefix),
			redisqueue.WithLogger(a.logger))
		if err != nil {
			_ = client.Close()
			return out, fmt.Errorf("redis queue: %w", err)
		}
		out = append(out, backend{
			name:  q.Name(),
			queue: q,
			run:   q.Run,
			check: redis.Healthcheck(client),
			closer: func() error {
				_ = q.Close()
				return client.Close()
			},
		})
	}

	if a.config.Postgres.ConnectionString != "" {
		pool, err := pg.Connect(ctx, a.config.Postgres)
		if err != nil {
			return out, fmt.Errorf("postgres: %w", err)
		}
		q, err := pgqueue.New(pool,
			pgqueue.WithChannel(a.config.PostgresChannel),
			pgqueue.WithLogger(a.logger))
		if err != nil {
			pool.Close()
			return out, fmt.Errorf("postgres queue: %w", err)
		}
		out = append(out, backend{
			name:  q.Name(),
			queue: q,
			run:   q.Run,
			check: pg.Healthcheck(pool),
			closer: func() error {
				_ = q.Close()
				pool.Close()
				return nil
			},
		})
	}

	if a.config.NATS.URL != "" {
		conn, err := natsqueue.Connect(a.config.NATS, a.logger)
		if err != nil {
			return out, err
		}
		q, err := natsqueue.New(conn,
			natsqueue.WithSubjectPrefix(a.config.NATS.SubjectPrefix),
			natsqueue.WithLogger(a.logger),
			natsqueue.WithContext(ctx))
		if err != nil {
			conn.Close()
			return out, err
		}
		out = append(out, backend{
			name:  q.Name(),
			queue: q,
			check: func(context.Context) error {
				if !conn.IsConnected() {
					return fmt.Errorf("nats: %s", conn.Status())
				}
				return nil
			},
			closer: func() error {
				_ = q.Close()
				return conn.Drain()
			},
		})
	}

	for i, url := range a.config.WebsocketURLs {
		q, err := wsqueue.Dial(ctx, url,
			wsqueue.WithName(fmt.Sprintf("websocket-%d", i)),
			wsqueue.WithLogger(a.logger))
		if err != nil {
			return out, fmt.Errorf("websocket %s: %w", url, err)
		}
		out = append(out, backend{
			name:   q.Name(),
			queue:  q,
			run:    q.Run,
			closer: q.Close,
		})
	}

	for _, q := range a.extra {
		b := backend{name: fmt.Sprintf("%T", q), queue: q}
		if r, ok := q.(runner); ok {
			b.run = r.Run
		}
		out = append(out, b)
	}

	for _, b := range out {
		a.logger.Info("backend connected", logger.Queue(b.name))
	}

	return out, nil
}
