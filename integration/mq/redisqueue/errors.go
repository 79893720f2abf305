package redisqueue

import "errors"

var (
	ErrNilClient       = errors.New("redisqueue: nil redis client")
	ErrSubscribeFailed = errors.New("redisqueue: failed to subscribe to channel")
	ErrPublishFailed   = errors.New("redisqueue: failed to publish message")
)
