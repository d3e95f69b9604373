// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown on context cancellation, SIGINT or SIGTERM, and provides
// liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
package httpserver
