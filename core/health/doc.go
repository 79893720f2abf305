// Package health provides HTTP handlers for liveness and readiness probes.
//
//	mux.Handle("GET /health/live", health.Liveness())
//	mux.Handle("GET /health/ready", health.Readiness(log, checks...))
//
// Checks follow the func(context.Context) error signature returned by the
// Healthcheck helpers in integration/database.
package health
