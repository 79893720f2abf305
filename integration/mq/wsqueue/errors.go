package wsqueue

import "errors"

var (
	ErrNilConnection = errors.New("wsqueue: nil websocket connection")
	ErrDialFailed    = errors.New("wsqueue: failed to dial websocket")
	ErrWriteFailed   = errors.New("wsqueue: failed to write message")
	ErrReadFailed    = errors.New("wsqueue: failed to read message")
)
