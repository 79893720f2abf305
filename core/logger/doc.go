// Package logger provides structured logging helpers built on log/slog.
//
// New builds a *slog.Logger from options:
//
//	log := logger.New(
//		logger.WithProduction("fanin"),
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	)
//
// Attribute helpers return an empty slog.Attr for zero values, which slog
// drops, so they can be used without nil checks:
//
//	log.Error("subscription rolled back",
//		logger.Queue("composite"),
//		logger.Identifier("ping"),
//		logger.Error(err),
//	)
//
// Queue-specific helpers: Queue, Identifier, MessageID, ObserverID, ChildID
// and Channel. Generic helpers: Error, Errors, Group, Duration, Elapsed,
// Component, Action, Count, Key and RetryCount.
package logger
