// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"table-reservation-service/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo
// instance.  Load balancers and monitoring systems probe it to verify
// that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservation registers the booking widget's endpoints under
// /v1.  None of them require authentication: the widget is embedded on
// the venue's public site and guests book by contact details alone.
func RegisterReservation(e *echo.Echo, a *handler.AvailabilityHandler, d *handler.DuplicateHandler, w *handler.WSHandler) {
	// Per-date availability snapshot for the calendar view.
	e.GET("/v1/availability", a.Get)
	// Advisory duplicate warning before the guest submits.
	e.POST("/v1/reservations/duplicate-check", d.Check)
	// Realtime channel: reservation submission and invalidation pushes.
	e.GET("/v1/ws", w.Connect)
}
