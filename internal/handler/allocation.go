package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-reservation/internal/allocation"
	"github.com/iliyamo/bus-seat-reservation/internal/repository"
)

// AllocationHandler exposes the seat allocation engine over HTTP: segment
// availability, automatic seat selection and schedule reoptimization.  The
// engine itself is pure; this handler assembles its input snapshot from
// the seats, active bookings and live holds of a schedule.
type AllocationHandler struct {
	RouteRepo       *repository.RouteRepo
	ScheduleRepo    *repository.ScheduleRepo
	SeatRepo        *repository.SeatRepo
	BookingRepo     *repository.BookingRepo
	SeatHoldRepo    *repository.SeatHoldRepo
	ReservationRepo *repository.ReservationRepo
}

// NewAllocationHandler constructs an AllocationHandler.  All repositories
// must be non-nil.
func NewAllocationHandler(routeRepo *repository.RouteRepo, scheduleRepo *repository.ScheduleRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo, seatHoldRepo *repository.SeatHoldRepo, reservationRepo *repository.ReservationRepo) *AllocationHandler {
	if routeRepo == nil || scheduleRepo == nil || seatRepo == nil || bookingRepo == nil || seatHoldRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewAllocationHandler")
	}
	return &AllocationHandler{
		RouteRepo:       routeRepo,
		ScheduleRepo:    scheduleRepo,
		SeatRepo:        seatRepo,
		BookingRepo:     bookingRepo,
		SeatHoldRepo:    seatHoldRepo,
		ReservationRepo: reservationRepo,
	}
}

// buildSnapshot converts persistence records into the engine's seat model.
// Active bookings and unexpired holds both count as occupied segments; a
// hold is a promise to a customer and must block others just like a
// confirmed booking.  Holds belonging to excludeHoldUser are skipped so a
// customer re-running selection is not blocked by their own pending holds.
// Inactive seats are omitted entirely.
func buildSnapshot(seats []repository.Seat, bookings []repository.SeatBookingRecord, holds []repository.SeatHoldRecord, excludeHoldUser uint64) []*allocation.Seat {
	byID := make(map[uint64]*allocation.Seat, len(seats))
	out := make([]*allocation.Seat, 0, len(seats))
	for _, s := range seats {
		if !s.IsActive {
			continue
		}
		as := &allocation.Seat{
			ID:    s.ID,
			Row:   s.RowNo,
			Col:   s.SeatCol,
			Label: s.Label,
			Type:  s.SeatType,
		}
		byID[s.ID] = as
		out = append(out, as)
	}
	for _, b := range bookings {
		if as, ok := byID[b.SeatID]; ok {
			as.Bookings = append(as.Bookings, allocation.Booking{
				BoardAt: b.BoardAt,
				ExitAt:  b.ExitAt,
				Status:  allocation.BookingActive,
			})
		}
	}
	for _, h := range holds {
		if h.UserID == excludeHoldUser && excludeHoldUser != 0 {
			continue
		}
		if as, ok := byID[h.SeatID]; ok {
			as.Bookings = append(as.Bookings, allocation.Booking{
				BoardAt: h.BoardAt,
				ExitAt:  h.ExitAt,
				Status:  allocation.BookingActive,
			})
		}
	}
	return out
}

// loadSnapshot fetches everything the engine needs for a schedule: the
// route's ordered stop names and the occupancy snapshot.  It is used by
// read-only endpoints; write paths assemble the same data inside their
// transaction instead.
func (h *AllocationHandler) loadSnapshot(c echo.Context, scheduleID uint64) (*repository.Schedule, []string, []*allocation.Seat, error) {
	ctx := c.Request().Context()
	sched, err := h.ScheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, err
	}
	stops, err := h.RouteRepo.StopNames(ctx, sched.RouteID)
	if err != nil {
		return nil, nil, nil, err
	}
	seats, err := h.SeatRepo.GetByBus(ctx, sched.BusID)
	if err != nil {
		return nil, nil, nil, err
	}
	bookings, err := h.BookingRepo.ActiveBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, err
	}
	holds, err := h.SeatHoldRepo.ActiveHoldsBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, err
	}
	return sched, stops, buildSnapshot(seats, bookings, holds, 0), nil
}

// seatView is the wire representation of a seat in availability and
// selection responses.
type seatView struct {
	ID        uint64 `json:"id"`
	Label     string `json:"label"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	SeatType  string `json:"seat_type"`
	Available bool   `json:"available"`
}

// GetAvailability handles GET /v1/schedules/:id/seats.  Without query
// parameters it returns the full seat map.  With ?board=X&exit=Y it also
// marks every seat's availability for that segment, so clients can render
// a picker for passengers travelling part of the route.
func (h *AllocationHandler) GetAvailability(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	sched, stops, snapshot, err := h.loadSnapshot(c, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	board := strings.TrimSpace(c.QueryParam("board"))
	exit := strings.TrimSpace(c.QueryParam("exit"))
	segmentGiven := board != "" || exit != ""
	if segmentGiven {
		if _, ok := allocation.ResolveSegment(stops, board, exit); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "segment does not resolve on this route"})
		}
	}

	out := make([]seatView, 0, len(snapshot))
	for _, s := range snapshot {
		v := seatView{ID: s.ID, Label: s.Label, Row: s.Row, Col: s.Col, SeatType: s.Type}
		if segmentGiven {
			v.Available = allocation.IsSeatAvailableForSegment(s, board, exit, stops)
		}
		out = append(out, v)
	}
	resp := echo.Map{
		"schedule_id": sched.ID,
		"stops":       stops,
		"seats":       out,
	}
	if segmentGiven {
		resp["board_at"] = board
		resp["exit_at"] = exit
	}
	return c.JSON(http.StatusOK, resp)
}

// SelectSeats handles POST /v1/schedules/:id/seats/select.  It runs the
// allocation engine against the current snapshot and returns the best
// seats for the requested segment and party size.  No state is changed;
// customers follow up with a hold on the returned seats.
func (h *AllocationHandler) SelectSeats(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		BoardAt string `json:"board_at"`
		ExitAt  string `json:"exit_at"`
		Count   int    `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Count <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be positive"})
	}
	_, stops, snapshot, err := h.loadSnapshot(c, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, ok := allocation.ResolveSegment(stops, body.BoardAt, body.ExitAt); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "segment does not resolve on this route"})
	}
	chosen := allocation.SelectSeats(snapshot, body.BoardAt, body.ExitAt, stops, body.Count)
	if len(chosen) < body.Count {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "not enough free seats for this segment",
			"available": len(chosen),
		})
	}
	out := make([]seatView, 0, len(chosen))
	for _, s := range chosen {
		out = append(out, seatView{ID: s.ID, Label: s.Label, Row: s.Row, Col: s.Col, SeatType: s.Type, Available: true})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"board_at":    body.BoardAt,
		"exit_at":     body.ExitAt,
		"seats":       out,
	})
}

// Reoptimize handles POST /v1/schedules/:id/reoptimize.  The operator of
// the schedule's route can re-run allocation across all active bookings,
// packing groups back together after cancellations fragment the bus.  The
// default is a dry run returning the planned moves; pass {"apply": true}
// to persist them.  Holds are treated as fixed occupancy and are never
// moved.
func (h *AllocationHandler) Reoptimize(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		Apply bool `json:"apply"`
	}
	_ = c.Bind(&body)

	ctx := c.Request().Context()
	sched, err := h.ScheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.RouteRepo.GetByIDAndOperator(ctx, sched.RouteID, operatorID); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.ScheduleRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stops, err := h.RouteRepo.StopNames(ctx, sched.RouteID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.GetByBus(ctx, sched.BusID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bookings, err := h.BookingRepo.ActiveByScheduleTx(ctx, tx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	holds, err := h.SeatHoldRepo.ActiveHoldsByScheduleTx(ctx, tx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// The snapshot feeding the engine carries only hold occupancy; booking
	// occupancy is supplied as candidates so the engine may move them.
	snapshot := buildSnapshot(seats, nil, holds, 0)
	byID := make(map[uint64]*allocation.Seat, len(snapshot))
	for _, s := range snapshot {
		byID[s.ID] = s
	}
	candidates := make([]allocation.ReoptCandidate, 0, len(bookings))
	for _, b := range bookings {
		if seat, ok := byID[b.SeatID]; ok {
			candidates = append(candidates, allocation.ReoptCandidate{
				Seat:    seat,
				BoardAt: b.BoardAt,
				ExitAt:  b.ExitAt,
			})
		}
	}

	result := allocation.Reoptimize(allocation.ReoptimizeInput{
		Stops:      stops,
		Seats:      snapshot,
		Candidates: candidates,
	})

	applied := false
	if body.Apply && result.Status == allocation.StatusNeedsReopt {
		if err := h.applyMoves(ctx, tx, scheduleID, bookings, result.Assignments); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply moves"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		applied = true
	}

	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"status":      result.Status,
		"moves":       result.Moves,
		"signature":   result.Signature,
		"applied":     applied,
	})
}

// applyMoves rewrites seat_bookings and reservation_seats so each moved
// passenger occupies the seat the engine assigned.  Assignments whose From
// and To seats match are no-ops and skipped.  Rows are resolved to primary
// keys before updating so seat swaps inside one reservation cannot clobber
// each other.
func (h *AllocationHandler) applyMoves(ctx context.Context, tx *sql.Tx, scheduleID uint64, bookings []repository.SeatBookingRecord, assignments []allocation.Assignment) error {
	type plannedMove struct {
		bookingID     uint64
		reservationID uint64
		fromSeatID    uint64
		toSeatID      uint64
		boardAt       string
		exitAt        string
	}
	consumed := make(map[uint64]bool, len(bookings))
	moves := make([]plannedMove, 0, len(assignments))
	for _, a := range assignments {
		if a.From == nil || a.To == nil || a.From.ID == a.To.ID {
			continue
		}
		for i := range bookings {
			b := &bookings[i]
			if consumed[b.ID] || b.SeatID != a.From.ID || b.BoardAt != a.BoardAt || b.ExitAt != a.ExitAt {
				continue
			}
			consumed[b.ID] = true
			moves = append(moves, plannedMove{
				bookingID:     b.ID,
				reservationID: b.ReservationID,
				fromSeatID:    b.SeatID,
				toSeatID:      a.To.ID,
				boardAt:       b.BoardAt,
				exitAt:        b.ExitAt,
			})
			break
		}
	}

	// Resolve reservation_seats rows to primary keys up front.
	rsIDs := make([]uint64, len(moves))
	for i, m := range moves {
		const sel = `SELECT id FROM reservation_seats
		             WHERE reservation_id = ? AND schedule_id = ? AND seat_id = ? AND board_at = ? AND exit_at = ?
		             LIMIT 1 FOR UPDATE`
		if err := tx.QueryRowContext(ctx, sel, m.reservationID, scheduleID, m.fromSeatID, m.boardAt, m.exitAt).Scan(&rsIDs[i]); err != nil {
			return err
		}
	}
	for i, m := range moves {
		if _, err := tx.ExecContext(ctx, `UPDATE seat_bookings SET seat_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, m.toSeatID, m.bookingID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE reservation_seats SET seat_id = ? WHERE id = ?`, m.toSeatID, rsIDs[i]); err != nil {
			return err
		}
	}
	return nil
}
