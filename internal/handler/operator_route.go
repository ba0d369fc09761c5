package handler // handler package contains operator-specific route handlers

import (
	"database/sql" // sql is imported for sentinel errors like sql.ErrNoRows
	"net/http"     // http provides status code constants
	"strconv"  // strconv parses string identifiers to numeric types
	"strings"  // strings offers trimming utilities

	"github.com/iliyamo/bus-seat-reservation/internal/repository" // repository holds database models
	"github.com/labstack/echo/v4"                                 // echo is the web framework used for handlers
)

// cleanStops trims each stop name and drops empties while preserving order.
func cleanStops(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CreateRoute handles POST /v1/routes.  A route is created together with
// its ordered stop list; at least two stops are required because a route
// with fewer stops can never carry a passenger segment.
func (h *OperatorHandler) CreateRoute(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name      string   `json:"name"`
		Direction string   `json:"direction"`
		Stops     []string `json:"stops"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	direction := strings.ToUpper(strings.TrimSpace(body.Direction))
	if direction != "OUTBOUND" && direction != "INBOUND" {
		direction = "OUTBOUND"
	}
	stops := cleanStops(body.Stops)
	if len(stops) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least two stops are required"})
	}
	route := &repository.Route{
		OperatorID: operatorID,
		Name:       name,
		Direction:  direction,
	}
	if err := h.RouteRepo.Create(c.Request().Context(), route, stops); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":        route.ID,
		"name":      route.Name,
		"direction": route.Direction,
		"stops":     stops,
	})
}

// UpdateRoute handles PUT/PATCH /v1/routes/:id and renames a route.
func (h *OperatorHandler) UpdateRoute(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.RouteRepo.UpdateName(c.Request().Context(), id, operatorID, name); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, _ := h.RouteRepo.GetByID(c.Request().Context(), id)
	return c.JSON(http.StatusOK, updated)
}

// ReplaceStops handles PUT /v1/routes/:id/stops.  The full ordered stop
// list is replaced in one transaction.  Existing bookings whose stops no
// longer appear on the route simply stop constraining availability; the
// reoptimize endpoint reports them as segment-not-on-route.
func (h *OperatorHandler) ReplaceStops(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Stops []string `json:"stops"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	stops := cleanStops(body.Stops)
	if len(stops) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least two stops are required"})
	}
	if err := h.RouteRepo.ReplaceStops(c.Request().Context(), id, operatorID, stops); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "replace stops failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "stops": stops})
}

// ListRoutes handles GET /v1/operator/routes and returns all routes owned
// by the authenticated operator.
func (h *OperatorHandler) ListRoutes(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.RouteRepo.ListByOperator(c.Request().Context(), operatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRoute handles DELETE /v1/routes/:id.  The route and everything
// hanging off it (stops, schedules, holds, bookings, reservations) is
// removed in one transaction.
func (h *OperatorHandler) DeleteRoute(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RouteRepo.DeleteByIDAndOperator(c.Request().Context(), id, operatorID); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
