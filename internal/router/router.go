package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/ticket-inventory/internal/handler"    // handlers implementing the endpoints
    "github.com/iliyamo/ticket-inventory/internal/middleware" // JWT authentication and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probe this to verify the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// RegisterAPI wires the catalog, seat, booking and payment endpoints.
// The limiter guards the endpoints that mutate seat state so one
// client cannot churn through the inventory; reads stay unthrottled.
func RegisterAPI(
    e *echo.Echo,
    catalog *handler.CatalogHandler,
    shows *handler.ShowHandler,
    seats *handler.SeatHandler,
    bookings *handler.BookingHandler,
    payments *handler.PaymentHandler,
    limiter echo.MiddlewareFunc,
    jwtSecret string,
) {
    v1 := e.Group("/v1")

    // Catalog reference data.
    v1.POST("/movies", catalog.CreateMovie)
    v1.GET("/movies", catalog.ListMovies)
    v1.GET("/movies/:id", catalog.GetMovie)
    v1.GET("/movies/:id/shows", shows.ListForMovie)
    v1.POST("/theatres", catalog.CreateTheatre)
    v1.GET("/theatres", catalog.ListTheatres)

    // Shows and their live seat maps.
    v1.POST("/shows", shows.Create)
    v1.GET("/shows", shows.List)
    v1.GET("/shows/:id", shows.Get)
    v1.GET("/shows/:id/seats", seats.List)

    // Seat holds, bookings and payments sit behind the rate limiter.
    v1.POST("/shows/:id/hold", seats.Hold, limiter)
    v1.DELETE("/shows/:id/hold", seats.Release, limiter)
    v1.POST("/bookings", bookings.Create, limiter)
    v1.GET("/bookings/:id", bookings.Get)
    v1.POST("/payments/initiate", payments.Initiate, limiter)
    v1.POST("/payments/confirm", payments.Confirm, limiter)
    v1.POST("/payments/mock-callback", payments.MockCallback, limiter)
    v1.GET("/payments/:txn", payments.Get)

    // The booking list is personal, so it needs a valid access token.
    mine := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    mine.GET("/my-bookings", bookings.Mine)
}
