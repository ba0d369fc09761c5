package router

import (
	"github.com/iliyamo/bus-seat-reservation/internal/handler"
	"github.com/iliyamo/bus-seat-reservation/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers can hold seats for a
// segment of a departure, release holds, confirm reservations and view or
// cancel their own reservations.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: GET /v1/schedules/:id/seats and POST /v1/schedules/:id/seats/select
	// are registered on the public router so guests can inspect availability
	// before registering.  Customer-specific endpoints begin here.
	g.POST("/schedules/:id/hold", h.HoldSeats)
	g.DELETE("/schedules/:id/hold", h.ReleaseHolds)
	g.POST("/schedules/:id/confirm", h.ConfirmSeats)
	g.GET("/my-reservations", h.ListReservations)

	// Reservation detail and cancellation endpoints for customers.  These
	// endpoints allow a customer to view or cancel a reservation
	// belonging to themselves.  They are protected by the CUSTOMER
	// role and validated within the handler.
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.DeleteReservation)
}
