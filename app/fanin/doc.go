// Package fanin wires the composite queue into a runnable service.
//
// NewApp reads Config from the environment (see core/config) and builds an
// mq.CompositeQueue with Prometheus metrics. Run connects every backend whose
// URL is configured (Redis Pub/Sub, PostgreSQL LISTEN/NOTIFY, NATS and any
// number of websocket feeds), attaches each one as a child, subscribes a
// handler to every identifier in FANIN_IDENTIFIERS and serves:
//
//	GET /metrics       Prometheus metrics
//	GET /health/live   liveness
//	GET /health/ready  readiness over every backend health check
//
// Run returns when ctx is canceled or any backend loop fails. Everything it
// opened is closed before it returns.
package fanin
