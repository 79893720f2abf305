package pgqueue

import "errors"

var (
	ErrNilPool          = errors.New("pgqueue: nil connection pool")
	ErrPayloadTooLarge  = errors.New("pgqueue: message exceeds NOTIFY payload limit")
	ErrListenFailed     = errors.New("pgqueue: failed to listen on channel")
	ErrPublishFailed    = errors.New("pgqueue: failed to publish message")
	ErrAlreadyListening = errors.New("pgqueue: Run is already active")
)
