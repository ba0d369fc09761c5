package router

// This file registers operator-specific routes for managing reservations.
// The routes defined here allow operators to list, view and cancel
// reservations on schedules that run on their routes.  They are
// separate from the generic operator routes to keep concerns isolated.

import (
	"github.com/iliyamo/bus-seat-reservation/internal/handler"
	"github.com/iliyamo/bus-seat-reservation/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterOperatorReservations registers routes that allow operators to
// manage reservations.  All routes are mounted under /v1 and require a
// JWT token as well as the OPERATOR role.  The provided handler
// supplies the business logic for listing, retrieving and cancelling
// reservations.
func RegisterOperatorReservations(e *echo.Echo, h *handler.OperatorReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OPERATOR"),
	)
	// List all reservations for a specific schedule
	g.GET("/schedules/:id/reservations", h.ListScheduleReservations)
	// Retrieve a single reservation (operator perspective)
	g.GET("/operator/reservations/:id", h.GetOperatorReservation)
	// Cancel a reservation before departure (operator override)
	g.DELETE("/operator/reservations/:id", h.CancelOperatorReservation)
}
