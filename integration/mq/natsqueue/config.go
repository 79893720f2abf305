package natsqueue

import "time"

// Config holds NATS connection settings.
type Config struct {
	URL            string        `env:"NATS_URL"`
	ClientName     string        `env:"NATS_CLIENT_NAME" envDefault:"fanin"`
	SubjectPrefix  string        `env:"NATS_SUBJECT_PREFIX" envDefault:"mq"`
	MaxReconnects  int           `env:"NATS_MAX_RECONNECTS" envDefault:"10"`
	ReconnectWait  time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"NATS_CONNECT_TIMEOUT" envDefault:"5s"`
}
