// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkoberg/restaurant-reservation/internal/handler"
)

// RegisterRoutes registers routes that need no middleware beyond what
// the caller applied on the Echo instance. Currently it exposes only a
// health check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the reservation, table and statistics endpoints
// under /v1. The optional middleware (response cache, rate limiter) is
// applied by the caller on the Echo instance before registration so it
// covers the whole group.
func RegisterAPI(e *echo.Echo, t *handler.TableHandler, r *handler.ReservationHandler, s *handler.StatsHandler) {
	g := e.Group("/v1")

	// Table registry. The static /tables/available route is registered
	// before /tables/:id so Echo does not swallow it as an id.
	g.GET("/tables", t.ListTables)
	g.POST("/tables", t.CreateTable)
	g.GET("/tables/available", t.FindAvailable)
	g.GET("/tables/:id", t.GetTable)
	g.PUT("/tables/:id", t.UpdateTable)
	g.DELETE("/tables/:id", t.DeleteTable)
	g.GET("/tables/:id/reservations", t.ListTableReservations)

	// Reservations and the slot query used by table-selection UIs.
	g.POST("/reservations", r.CreateReservation)
	g.GET("/reservations", r.ListReservations)
	g.GET("/reservations/:id", r.GetReservation)
	g.DELETE("/reservations/:id", r.CancelReservation)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
	g.GET("/slots", r.GetSlot)

	// Read-only statistics.
	g.GET("/stats", s.GetSummary)
	g.GET("/stats/popular-times", s.GetPopularTimes)
}
