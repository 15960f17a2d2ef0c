// Package handlers contains HTTP handler interfaces, implementations, and middleware.
//
// This package provides:
//   - Health check interfaces and implementations
//   - Registrar authentication with bcrypt-hashed credentials
//   - Reusable middleware components
//
// # Health Checks
//
// The HealthChecker interface allows registering multiple named health checks
// that are executed in parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("database", handlers.NewDatabaseCheck(db))
//	checker.AddCheck("cache", handlers.NewCacheCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("Health check failed: %s", status.Message)
//	}
//
// # Registrar Authentication
//
// Endpoints that mutate student records are restricted to registrar staff.
// Credentials are verified against bcrypt hashes via HTTP Basic auth:
//
//	hash, _ := handlers.HashPassword("s3cret")
//	auth := handlers.NewRegistrarAuth(map[string]string{"registrar": hash})
//	protected := auth.Middleware(myHandler)
//
// The authenticated username is available downstream through
// RegistrarFromContext.
//
// # Middleware
//
//	// Request timeout
//	withTimeout := handlers.TimeoutMiddleware(30 * time.Second)(myHandler)
//
//	// Chain multiple middleware
//	handler := handlers.ChainHandler(
//	    myHandler,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.NoCacheMiddleware,
//	    auth.Middleware,
//	)
package handlers
