package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/iliyamo/bus-seat-reservation/internal/repository" // repository holds data access layer
	"github.com/labstack/echo/v4"                                 // echo defines request context types
)

// OperatorHandler bundles repositories for operators to manage their
// routes, buses and schedules.
type OperatorHandler struct {
	RouteRepo    *repository.RouteRepo    // RouteRepo provides route and stop persistence
	BusRepo      *repository.BusRepo      // BusRepo provides bus persistence
	SeatRepo     *repository.SeatRepo     // SeatRepo provides seat persistence
	ScheduleRepo *repository.ScheduleRepo // ScheduleRepo provides schedule persistence
}

// NewOperatorHandler constructs a new OperatorHandler and panics if any dependency is nil
func NewOperatorHandler(routeRepo *repository.RouteRepo, busRepo *repository.BusRepo, seatRepo *repository.SeatRepo, scheduleRepo *repository.ScheduleRepo) *OperatorHandler {
	if routeRepo == nil || busRepo == nil || seatRepo == nil || scheduleRepo == nil {
		panic("nil repository passed to NewOperatorHandler")
	}
	return &OperatorHandler{
		RouteRepo:    routeRepo,
		BusRepo:      busRepo,
		SeatRepo:     seatRepo,
		ScheduleRepo: scheduleRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
