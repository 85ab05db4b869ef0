package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"ecocredit/internal/handler"    // import the handlers that implement endpoint logic
	"ecocredit/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while the protected profile endpoint lives under /v1.  The
// optional rate limit middleware (Redis token bucket) is applied to the
// unauthenticated group to slow down credential stuffing; pass nil to
// skip it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if rateLimit != nil {
		g.Use(rateLimit)
	}
	// Register creates a user and returns a token pair immediately.
	g.POST("/register", a.Register)
	// Login verifies credentials and returns a fresh token pair.
	g.POST("/login", a.Login)
	// Refresh rotates the session token and issues a new access token.
	g.POST("/refresh", a.Refresh)
	// Logout revokes the session token supplied in the JSON body.  It does
	// not require a JWT so that clients with an expired access token can
	// still terminate their session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Me returns the authenticated user's profile and credit balance.
	auth.GET("/me", a.Me)
}

// RegisterEntries registers the billing and recycling submission and
// history endpoints.  All of them require a valid access token: no core
// operation ever accepts a bare user id from the request.
func RegisterEntries(e *echo.Echo, h *handler.EntryHandler, d *handler.DashboardHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/billing", h.SubmitBilling)
	auth.GET("/billing", h.BillingHistory)
	auth.POST("/recycling", h.SubmitRecycling)
	auth.GET("/recycling", h.RecyclingHistory)
	auth.GET("/dashboard/summary", d.Summary)
}

// RegisterLeaderboard registers the public ranking endpoint.  The
// optional cache middleware (Redis response cache) is applied only to
// this group so that invalidating the cache prefix after a submission
// affects exactly the leaderboard.
func RegisterLeaderboard(e *echo.Echo, h *handler.LeaderboardHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/leaderboard", h.Get)
}
