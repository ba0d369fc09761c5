package handler // handler package contains operator-specific bus handlers

import (
	"database/sql" // sql is imported for sentinel errors like sql.ErrNoRows
	"net/http"     // http provides status code constants
	"strconv"      // strconv parses string identifiers to numeric types
	"strings"      // strings offers trimming utilities

	"github.com/iliyamo/bus-seat-reservation/internal/repository" // repository exposes database models
	"github.com/labstack/echo/v4"                                 // echo is the web framework used for handlers
)

// busResponse flattens the nullable columns of a bus row for JSON output.
type busResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	PlateNumber *string `json:"plate_number,omitempty"`
	SeatRows    *uint32 `json:"seat_rows,omitempty"`
	SeatCols    *uint32 `json:"seat_cols,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func toBusResponse(b *repository.Bus) busResponse {
	out := busResponse{ID: b.ID, Name: b.Name, IsActive: b.IsActive}
	if b.PlateNumber.Valid {
		v := b.PlateNumber.String
		out.PlateNumber = &v
	}
	if b.SeatRows.Valid {
		v := uint32(b.SeatRows.Int32)
		out.SeatRows = &v
	}
	if b.SeatCols.Valid {
		v := uint32(b.SeatCols.Int32)
		out.SeatCols = &v
	}
	return out
}

// CreateBus handles POST /v1/buses.  When seat_rows and seat_cols are
// provided the full seat grid is generated immediately, so a freshly
// created bus can be scheduled without a second call.
func (h *OperatorHandler) CreateBus(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name        string  `json:"name"`
		PlateNumber *string `json:"plate_number"`
		SeatRows    *int    `json:"seat_rows"`
		SeatCols    *int    `json:"seat_cols"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if (body.SeatRows == nil) != (body.SeatCols == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be provided together"})
	}
	if body.SeatRows != nil && (*body.SeatRows <= 0 || *body.SeatCols <= 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be positive"})
	}
	bus := &repository.Bus{OperatorID: operatorID, Name: name}
	if body.PlateNumber != nil && strings.TrimSpace(*body.PlateNumber) != "" {
		bus.PlateNumber = sql.NullString{String: strings.TrimSpace(*body.PlateNumber), Valid: true}
	}
	if body.SeatRows != nil {
		bus.SeatRows = sql.NullInt32{Int32: int32(*body.SeatRows), Valid: true}
		bus.SeatCols = sql.NullInt32{Int32: int32(*body.SeatCols), Valid: true}
	}
	ctx := c.Request().Context()
	if err := h.BusRepo.Create(ctx, bus); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create bus"})
	}
	if body.SeatRows != nil {
		if _, err := h.SeatRepo.RegenerateForBus(ctx, bus.ID, *body.SeatRows, *body.SeatCols); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bus created but seat generation failed"})
		}
	}
	return c.JSON(http.StatusCreated, toBusResponse(bus))
}

// UpdateBus handles PUT/PATCH /v1/buses/:id.  Changing the seat layout
// regenerates the seat grid; the handler refuses layout changes while the
// bus has schedules so existing bookings keep valid seat references.
func (h *OperatorHandler) UpdateBus(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	bus, err := h.BusRepo.GetByIDAndOperator(ctx, id, operatorID)
	if err != nil {
		if err == repository.ErrBusNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name        *string `json:"name"`
		PlateNumber *string `json:"plate_number"`
		SeatRows    *int    `json:"seat_rows"`
		SeatCols    *int    `json:"seat_cols"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		bus.Name = name
	}
	if body.PlateNumber != nil {
		plate := strings.TrimSpace(*body.PlateNumber)
		bus.PlateNumber = sql.NullString{String: plate, Valid: plate != ""}
	}
	layoutChanged := false
	if body.SeatRows != nil || body.SeatCols != nil {
		if body.SeatRows == nil || body.SeatCols == nil || *body.SeatRows <= 0 || *body.SeatCols <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be positive and provided together"})
		}
		bus.SeatRows = sql.NullInt32{Int32: int32(*body.SeatRows), Valid: true}
		bus.SeatCols = sql.NullInt32{Int32: int32(*body.SeatCols), Valid: true}
		layoutChanged = true
	}
	if layoutChanged {
		var scheduleCount int
		row := h.RouteRepo.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE bus_id = ?`, id)
		if err := row.Scan(&scheduleCount); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if scheduleCount > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change layout of a scheduled bus"})
		}
	}
	if err := h.BusRepo.UpdateByIDAndOperator(ctx, bus); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if layoutChanged {
		if _, err := h.SeatRepo.RegenerateForBus(ctx, id, int(bus.SeatRows.Int32), int(bus.SeatCols.Int32)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat regeneration failed"})
		}
	}
	return c.JSON(http.StatusOK, toBusResponse(bus))
}

// ListBuses handles GET /v1/buses and returns the operator's fleet.
func (h *OperatorHandler) ListBuses(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	buses, err := h.BusRepo.ListByOperator(c.Request().Context(), operatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]busResponse, 0, len(buses))
	for _, b := range buses {
		out = append(out, toBusResponse(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// RegenerateSeats handles POST /v1/buses/:id/seats/regenerate.  It rebuilds
// the full seat grid from the bus's stored dimensions, useful after a
// manual schema fix or a bad import.  Refused while schedules exist.
func (h *OperatorHandler) RegenerateSeats(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	bus, err := h.BusRepo.GetByIDAndOperator(ctx, id, operatorID)
	if err != nil {
		if err == repository.ErrBusNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !bus.SeatRows.Valid || !bus.SeatCols.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bus has no seat layout configured"})
	}
	var scheduleCount int
	row := h.RouteRepo.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE bus_id = ?`, id)
	if err := row.Scan(&scheduleCount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if scheduleCount > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot regenerate seats of a scheduled bus"})
	}
	seats, err := h.SeatRepo.RegenerateForBus(ctx, id, int(bus.SeatRows.Int32), int(bus.SeatCols.Int32))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat regeneration failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"bus_id": id, "seat_count": len(seats)})
}
