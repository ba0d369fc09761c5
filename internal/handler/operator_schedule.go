package handler // handler package contains operator-specific schedule handlers

import (
	"database/sql" // sql is imported for sentinel errors like sql.ErrNoRows
	"net/http"     // http provides status code constants
	"strconv"      // strconv parses string identifiers to numeric types
	"strings"      // strings offers trimming utilities
	"time"         // time validates departure timestamps

	"github.com/iliyamo/bus-seat-reservation/internal/repository" // repository defines data models
	"github.com/labstack/echo/v4"                                 // echo is the web framework used for handlers
)

// dbTimeLayout is the MySQL DATETIME format used for schedule times.
const dbTimeLayout = "2006-01-02 15:04:05"

// parseClientTime accepts RFC3339 or the DB layout and normalizes to the
// DB layout in UTC.
func parseClientTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(dbTimeLayout), true
	}
	if t, err := time.Parse(dbTimeLayout, s); err == nil {
		return t.UTC().Format(dbTimeLayout), true
	}
	return "", false
}

// CreateSchedule handles POST /v1/schedules.  The route and bus must both
// belong to the calling operator, and the bus must have a seat grid so
// the departure can actually be sold.
func (h *OperatorHandler) CreateSchedule(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RouteID          uint64 `json:"route_id"`
		BusID            uint64 `json:"bus_id"`
		DepartsAt        string `json:"departs_at"`
		ArrivesAt        string `json:"arrives_at"`
		FarePerStopCents uint32 `json:"fare_per_stop_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RouteID == 0 || body.BusID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id and bus_id are required"})
	}
	departs, ok := parseClientTime(body.DepartsAt)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departs_at must be a valid timestamp"})
	}
	ctx := c.Request().Context()
	if _, err := h.RouteRepo.GetByIDAndOperator(ctx, body.RouteID, operatorID); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	bus, err := h.BusRepo.GetByIDAndOperator(ctx, body.BusID, operatorID)
	if err != nil {
		if err == repository.ErrBusNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	seats, err := h.SeatRepo.GetByBus(ctx, bus.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bus has no seats; generate its layout first"})
	}
	sched := &repository.Schedule{
		RouteID:          body.RouteID,
		BusID:            body.BusID,
		DepartsAt:        departs,
		FarePerStopCents: body.FarePerStopCents,
	}
	if arrives, ok := parseClientTime(body.ArrivesAt); ok {
		sched.ArrivesAt = sql.NullString{String: arrives, Valid: true}
	}
	if err := h.ScheduleRepo.Create(ctx, sched); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create schedule"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                  sched.ID,
		"route_id":            sched.RouteID,
		"bus_id":              sched.BusID,
		"departs_at":          sched.DepartsAt,
		"fare_per_stop_cents": sched.FarePerStopCents,
		"status":              sched.Status,
	})
}

// ListSchedules handles GET /v1/routes/:id/schedules/all for the operator,
// returning every departure of one of their routes including cancelled
// ones, which the public listing filters out.
func (h *OperatorHandler) ListSchedules(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	routeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.RouteRepo.GetByIDAndOperator(ctx, routeID, operatorID); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.ScheduleRepo.ListByRoute(ctx, routeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateScheduleStatus handles PATCH /v1/schedules/:id/status and
// transitions a departure between SCHEDULED, CANCELLED and DEPARTED.
func (h *OperatorHandler) UpdateScheduleStatus(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	switch status {
	case "SCHEDULED", "CANCELLED", "DEPARTED":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be SCHEDULED, CANCELLED or DEPARTED"})
	}
	if err := h.ScheduleRepo.UpdateStatus(c.Request().Context(), id, operatorID, status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
