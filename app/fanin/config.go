package fanin

import (
	"time"

	"github.com/adamzdara/Sample-Codes/core/server"
	"github.com/adamzdara/Sample-Codes/integration/database/pg"
	"github.com/adamzdara/Sample-Codes/integration/database/redis"
	"github.com/adamzdara/Sample-Codes/integration/mq/natsqueue"
)

// Config is the fan-in service configuration. A backend is enabled when its
// connection URL is set.
type Config struct {
	Server   server.Config
	Redis    redis.Config
	Postgres pg.Config
	NATS     natsqueue.Config

	AppName  string `env:"APP_NAME" envDefault:"fanin"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Identifiers observed on the composite queue; each gets a logging observer.
	Identifiers []string `env:"FANIN_IDENTIFIERS" envSeparator:","`

	// Handler policy applied to every configured identifier.
	HandlerTimeout time.Duration `env:"FANIN_HANDLER_TIMEOUT" envDefault:"10s"`
	HandlerRetries int           `env:"FANIN_HANDLER_RETRIES" envDefault:"0"`

	MetricsNamespace        string `env:"FANIN_METRICS_NAMESPACE" envDefault:"fanin"`
	RejectDuplicateChildren bool   `env:"FANIN_REJECT_DUPLICATE_CHILDREN" envDefault:"false"`

	RedisChannelPrefix string   `env:"FANIN_REDIS_CHANNEL_PREFIX" envDefault:"mq:"`
	PostgresChannel    string   `env:"FANIN_PG_CHANNEL" envDefault:"mq_messages"`
	WebsocketURLs      []string `env:"FANIN_WS_URLS" envSeparator:","`
}
