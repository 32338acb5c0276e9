// Package httpserver runs an http.Handler with timeouts and graceful shutdown.
//
// Server.Run blocks until the context is cancelled, SIGINT or SIGTERM is
// received, or the listener fails. Shutdown drains in-flight requests within
// the configured timeout and is safe to call more than once.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Config carries env tags so it can be embedded in an application config
// parsed by github.com/caarlos0/env.
package httpserver
