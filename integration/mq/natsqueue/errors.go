package natsqueue

import "errors"

var (
	ErrEmptyURL        = errors.New("natsqueue: empty NATS URL")
	ErrNilConnection   = errors.New("natsqueue: nil NATS connection")
	ErrConnectFailed   = errors.New("natsqueue: failed to connect to NATS")
	ErrSubscribeFailed = errors.New("natsqueue: failed to subscribe")
	ErrPublishFailed   = errors.New("natsqueue: failed to publish")
)
