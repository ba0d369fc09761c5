package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/bus-seat-reservation/internal/handler"    // operator handlers
	"github.com/iliyamo/bus-seat-reservation/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterOperator registers OPERATOR-scoped endpoints under /v1.
// All routes require a valid JWT and OPERATOR role.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, alloc *handler.AllocationHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OPERATOR"),
	)

	// ---- Routes ----
	g.POST("/routes", o.CreateRoute)
	// NOTE: The public browse API serves GET /v1/routes for everyone; the
	// operator-scoped list lives under /v1/operator to avoid route conflicts.
	g.GET("/operator/routes", o.ListRoutes)
	g.PUT("/routes/:id", o.UpdateRoute)
	g.PATCH("/routes/:id", o.UpdateRoute) // allow partial/semantic updates via PATCH as well
	g.PUT("/routes/:id/stops", o.ReplaceStops)
	g.DELETE("/routes/:id", o.DeleteRoute)

	// ---- Buses ----
	g.POST("/buses", o.CreateBus)
	g.GET("/buses", o.ListBuses)
	g.PUT("/buses/:id", o.UpdateBus)
	g.PATCH("/buses/:id", o.UpdateBus)
	g.POST("/buses/:id/seats/regenerate", o.RegenerateSeats)

	// ---- Schedules ----
	g.POST("/schedules", o.CreateSchedule)
	g.GET("/routes/:id/schedules/all", o.ListSchedules)
	g.PATCH("/schedules/:id/status", o.UpdateScheduleStatus)

	// ---- Reoptimization ----
	// Re-run allocation across all active bookings of a departure.  The
	// default is a dry run; {"apply": true} persists the planned moves.
	g.POST("/schedules/:id/reoptimize", alloc.Reoptimize)
}
