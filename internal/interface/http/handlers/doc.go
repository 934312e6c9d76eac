// Package handlers holds the HTTP building blocks shared by the server:
// health probes and reusable middleware.
//
// # Health Checks
//
// The HealthChecker interface aggregates named probes, each run with its
// own timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("database", handlers.NewDatabaseCheck(conn))
//	checker.AddCheck("cache", handlers.NewCacheCheck(redis))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("health check failed: %s", status.Message)
//	}
//
// # Middleware
//
// Middleware compose through Chain or wrap a handler directly:
//
//	secure := handlers.SecurityHeadersMiddleware(myHandler)
//
//	handler := handlers.ChainHandler(
//	    myHandler,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	    handlers.NoCacheMiddleware,
//	    handlers.SecurityHeadersMiddleware,
//	)
package handlers
