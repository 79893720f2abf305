// Package pg provides PostgreSQL connection pool setup and health checking
// on top of pgx.
//
// Connect parses the connection string, applies pool limits and waits for the
// database with exponential backoff. Healthcheck returns a ping function for
// readiness probes. WithTx and Executor let callers route statements through
// a transaction carried in the context; integration/mq/pgqueue uses them so a
// NOTIFY issued inside a transaction is only delivered on commit.
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	tx, _ := pool.Begin(ctx)
//	ctx = pg.WithTx(ctx, tx)
//	_, err = pg.Executor(ctx, pool).Exec(ctx, "SELECT pg_notify($1, $2)", ch, payload)
//
// # Errors
//
//   - ErrEmptyConnectionString: no connection string configured
//   - ErrFailedToParseDBConfig: the connection string could not be parsed
//   - ErrFailedToOpenDBConnection: the pool could not reach the database
//   - ErrHealthcheckFailed: a health check ping failed
package pg
