// Package server runs an http.Server whose lifetime is bound to a context.
//
// Run listens, serves and on context cancellation shuts down gracefully
// within the configured timeout. It returns nil on a clean shutdown, so it
// drops straight into an errgroup:
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error { return srv.Run(ctx, mux) })
//
// Configuration is read from SERVER_* environment variables (see Config).
package server
