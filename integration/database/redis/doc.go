// Package redis provides Redis client initialization and health checking.
//
// It wraps go-redis with URL validation, exponential retry on connect and a
// PING-based health check. The client returned by Connect backs the Redis
// Pub/Sub queue adapter in integration/mq/redisqueue.
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	health := redis.Healthcheck(client)
//	if err := health(ctx); err != nil {
//		// not ready
//	}
//
// # Errors
//
//   - ErrEmptyConnectionURL: no connection URL configured
//   - ErrFailedToParseRedisConnString: the URL could not be parsed
//   - ErrRedisNotReady: PING did not succeed within the retry budget
//   - ErrHealthcheckFailed: a health check PING failed
package redis
