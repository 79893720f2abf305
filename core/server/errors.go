package server

import "errors"

var (
	// ErrMissingAddress is returned when no listen address is configured.
	ErrMissingAddress = errors.New("server address is required")

	// ErrServerAlreadyRunning is returned when Run is called on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
