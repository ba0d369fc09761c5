// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse routes, stops and departures without requiring
// authentication. Sensitive fields (operator IDs, timestamps, etc.) are filtered
// from responses.

package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/bus-seat-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	RouteRepo    *repository.RouteRepo    // provides access to route data
	ScheduleRepo *repository.ScheduleRepo // provides access to schedule data
	BusRepo      *repository.BusRepo      // provides access to bus data
}

// PublicRoute represents a route exposed via the public API. It contains
// only safe fields.
type PublicRoute struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Stops     []string `json:"stops,omitempty"`
}

// PublicSchedule represents a departure in list responses. DepartsAt is
// parsed into a time.Time for better client handling. Zero values indicate
// an invalid parse.
type PublicSchedule struct {
	ID               uint64     `json:"id"`
	DepartsAt        time.Time  `json:"departs_at"`
	ArrivesAt        *time.Time `json:"arrives_at,omitempty"`
	FarePerStopCents uint32     `json:"fare_per_stop_cents"`
	Status           string     `json:"status"`
}

// GetPublicRoutes returns a list of all routes accessible to unauthenticated
// users. Response JSON contains an "items" array of PublicRoute without
// the stop sequences; those are loaded on the detail endpoint.
func (h *PublicHandler) GetPublicRoutes(c echo.Context) error {
	ctx := c.Request().Context()
	routes, err := h.RouteRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRoute, 0, len(routes))
	for _, rt := range routes {
		out = append(out, PublicRoute{ID: rt.ID, Name: rt.Name, Direction: rt.Direction})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicRoute returns a single route together with its ordered stop
// sequence. The stop order is the order of travel, which clients need to
// offer valid board and exit choices.
func (h *PublicHandler) GetPublicRoute(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rt, err := h.RouteRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	stops, err := h.RouteRepo.StopNames(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, PublicRoute{ID: rt.ID, Name: rt.Name, Direction: rt.Direction, Stops: stops})
}

// GetPublicSchedulesByRoute lists departures of a route for unauthenticated
// users. It ensures the route exists, then returns each schedule's ID,
// departure time and fare. Cancelled departures are filtered out.
func (h *PublicHandler) GetPublicSchedulesByRoute(c echo.Context) error {
	ctx := c.Request().Context()
	routeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure route exists
	if _, err := h.RouteRepo.GetByID(ctx, routeID); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	schedules, err := h.ScheduleRepo.ListByRoute(ctx, routeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Status == "CANCELLED" {
			continue
		}
		// parse departure string into time.Time; if parse fails, zero time is used
		t, parseErr := time.Parse("2006-01-02 15:04:05", s.DepartsAt)
		if parseErr != nil {
			t = time.Time{}
		}
		item := PublicSchedule{
			ID:               s.ID,
			DepartsAt:        t,
			FarePerStopCents: s.FarePerStopCents,
			Status:           s.Status,
		}
		if s.ArrivesAt.Valid {
			if at, err2 := time.Parse("2006-01-02 15:04:05", s.ArrivesAt.String); err2 == nil {
				item.ArrivesAt = &at
			}
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// time: "upcoming" (default), "any" (no time filter)
func (h *PublicHandler) SearchSchedules(c echo.Context) error {
	route := strings.TrimSpace(c.QueryParam("route"))
	stop := strings.TrimSpace(c.QueryParam("stop"))
	timeFilter := strings.ToLower(strings.TrimSpace(c.QueryParam("time")))
	if timeFilter == "" {
		timeFilter = "upcoming"
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.ScheduleSearchQuery{
		Route:      route,
		Stop:       stop,
		TimeFilter: timeFilter,
		Page:       page,
		PageSize:   ps,
	}

	items, total, err := h.ScheduleRepo.SearchUpcoming(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "database_error",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}
