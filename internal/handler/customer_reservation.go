package handler

import (
	"database/sql" // for sentinel errors returned from repository
	"errors"       // for errors.Is comparisons
	"log"          // for logging best-effort publish failures
	"net/http"     // HTTP status codes
	"strconv"      // parsing path parameters
	"strings"      // trimming stop names
	"time"         // working with timestamps

	"github.com/iliyamo/bus-seat-reservation/internal/allocation"      // segment-aware seat engine
	"github.com/iliyamo/bus-seat-reservation/internal/queue"           // broker event payloads
	"github.com/iliyamo/bus-seat-reservation/internal/repository"      // repository layer
	queue_publisher "github.com/iliyamo/bus-seat-reservation/internal/service"
	"github.com/labstack/echo/v4" // Echo web framework
)

// CustomerHandler groups repositories required to perform seat holds,
// confirmations and reservation listing on behalf of customers.  All
// methods assume that JWT authentication and role validation has
// already been performed by middleware.  Methods may return 401
// Unauthorized if the user ID cannot be extracted from the context.
// Each method runs critical DB operations inside a transaction to
// guarantee atomicity.
type CustomerHandler struct {
	RouteRepo       *repository.RouteRepo       // access to routes for stop sequences
	ScheduleRepo    *repository.ScheduleRepo    // access to schedules and the shared DB handle
	BusRepo         *repository.BusRepo         // access to buses for event payloads
	SeatRepo        *repository.SeatRepo        // access to the physical seat grid
	BookingRepo     *repository.BookingRepo     // access to seat_bookings occupancy rows
	SeatHoldRepo    *repository.SeatHoldRepo    // access to seat_holds for creating and deleting holds
	ReservationRepo *repository.ReservationRepo // access to reservations and reservation_seats
	HoldTTL         time.Duration               // how long a hold blocks its segment
}

// NewCustomerHandler constructs a new CustomerHandler with the provided
// repositories.  All dependencies must be non-nil.  A non-positive TTL
// falls back to five minutes.
func NewCustomerHandler(routeRepo *repository.RouteRepo, scheduleRepo *repository.ScheduleRepo, busRepo *repository.BusRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo, seatHoldRepo *repository.SeatHoldRepo, reservationRepo *repository.ReservationRepo, holdTTL time.Duration) *CustomerHandler {
	if routeRepo == nil || scheduleRepo == nil || busRepo == nil || seatRepo == nil || bookingRepo == nil || seatHoldRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	if holdTTL <= 0 {
		holdTTL = 5 * time.Minute
	}
	return &CustomerHandler{
		RouteRepo:       routeRepo,
		ScheduleRepo:    scheduleRepo,
		BusRepo:         busRepo,
		SeatRepo:        seatRepo,
		BookingRepo:     bookingRepo,
		SeatHoldRepo:    seatHoldRepo,
		ReservationRepo: reservationRepo,
		HoldTTL:         holdTTL,
	}
}

// sellableSchedule loads a schedule and rejects departures that can no
// longer be sold.  It returns the schedule and the route's ordered stops.
func (h *CustomerHandler) sellableSchedule(c echo.Context, scheduleID uint64) (*repository.Schedule, []string, error) {
	ctx := c.Request().Context()
	sched, err := h.ScheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if sched.Status != "SCHEDULED" {
		return nil, nil, repository.ErrConflict
	}
	stops, err := h.RouteRepo.StopNames(ctx, sched.RouteID)
	if err != nil {
		return nil, nil, err
	}
	return sched, stops, nil
}

// HoldSeats handles POST /v1/schedules/:id/hold.  It allows a customer to
// temporarily hold seats for a segment of the route.  The request body
// must contain "board_at" and "exit_at" stop names plus either a "count"
// (the engine picks the best seats) or an explicit "seat_ids" array.
// Previous holds by the same user on the schedule are replaced.  It
// returns 201 Created with the held seats and the expiration timestamp.
// When the segment cannot be satisfied it returns 409 with the number of
// seats still free.
func (h *CustomerHandler) HoldSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		BoardAt string   `json:"board_at"`
		ExitAt  string   `json:"exit_at"`
		Count   int      `json:"count"`
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.BoardAt = strings.TrimSpace(body.BoardAt)
	body.ExitAt = strings.TrimSpace(body.ExitAt)
	if body.Count <= 0 && len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count or seat_ids is required"})
	}
	sched, stops, err := h.sellableSchedule(c, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule is not open for booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, ok := allocation.ResolveSegment(stops, body.BoardAt, body.ExitAt); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "segment does not resolve on this route"})
	}
	ctx := c.Request().Context()
	seats, err := h.SeatRepo.GetByBus(ctx, sched.BusID)
	if err != nil {
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
	// clear out stale holds before checking the segment
	if _, err := h.SeatHoldRepo.ExpireHoldsTx(ctx, tx, scheduleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	// replace the user's own earlier holds on this schedule
	if _, err := h.SeatHoldRepo.DeleteByUserAndScheduleTx(ctx, tx, userID, scheduleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release previous holds"})
	}
	bookings, err := h.BookingRepo.ActiveByScheduleTx(ctx, tx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	holds, err := h.SeatHoldRepo.ActiveHoldsByScheduleTx(ctx, tx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load holds"})
	}
	snapshot := buildSnapshot(seats, bookings, holds, userID)

	var chosen []*allocation.Seat
	if len(body.SeatIDs) > 0 {
		// explicit seat picks: verify every requested seat is free for
		// the segment
		byID := make(map[uint64]*allocation.Seat, len(snapshot))
		for _, s := range snapshot {
			byID[s.ID] = s
		}
		seen := make(map[uint64]struct{}, len(body.SeatIDs))
		unavailable := make([]uint64, 0)
		for _, sid := range body.SeatIDs {
			if sid == 0 {
				continue
			}
			if _, dup := seen[sid]; dup {
				continue
			}
			seen[sid] = struct{}{}
			s, ok := byID[sid]
			if !ok || s.Type == allocation.SeatTypeDriver || !allocation.IsSeatAvailableForSegment(s, body.BoardAt, body.ExitAt, stops) {
				unavailable = append(unavailable, sid)
				continue
			}
			chosen = append(chosen, s)
		}
		if len(unavailable) > 0 {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are unavailable for this segment",
				"unavailable": unavailable,
			})
		}
		if len(chosen) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid seat IDs provided"})
		}
	} else {
		chosen = allocation.SelectSeats(snapshot, body.BoardAt, body.ExitAt, stops, body.Count)
		if len(chosen) < body.Count {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "not enough free seats for this segment",
				"available": len(chosen),
			})
		}
	}

	seatIDs := make([]uint64, 0, len(chosen))
	for _, s := range chosen {
		seatIDs = append(seatIDs, s.ID)
	}
	expiresAt := time.Now().UTC().Add(h.HoldTTL)
	records := repository.GenerateHoldRecords(userID, scheduleID, seatIDs, body.BoardAt, body.ExitAt, expiresAt)
	if err := h.SeatHoldRepo.CreateMultipleTx(ctx, tx, records); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create holds"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	out := make([]seatView, 0, len(chosen))
	for _, s := range chosen {
		out = append(out, seatView{ID: s.ID, Label: s.Label, Row: s.Row, Col: s.Col, SeatType: s.Type, Available: true})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"schedule_id": scheduleID,
		"board_at":    body.BoardAt,
		"exit_at":     body.ExitAt,
		"seats":       out,
		"expires_at":  expiresAt.Format(time.RFC3339),
	})
}

// ReleaseHolds handles DELETE /v1/schedules/:id/hold.  It releases all
// holds for the current user on the specified schedule, freeing the held
// segments immediately.  Returns 200 OK with the number of seats released.
func (h *CustomerHandler) ReleaseHolds(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
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
	seatIDs, err := h.SeatHoldRepo.DeleteByUserAndScheduleTx(ctx, tx, userID, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release holds"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"released": len(seatIDs),
	})
}

// ConfirmSeats handles POST /v1/schedules/:id/confirm.  It finalises the
// user's active holds on a schedule and creates a reservation.  Each
// held seat becomes a reservation_seats row and an ACTIVE seat_bookings
// row carrying the held segment; the fare per seat is the number of stop
// intervals travelled times the schedule's per-stop fare.  Returns 201
// Created with the reservation ID and total price.  After the commit a
// booking event is published to the broker on a best-effort basis.
func (h *CustomerHandler) ConfirmSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	sched, stops, err := h.sellableSchedule(c, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule is not open for booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ctx := c.Request().Context()
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
	// expire any holds that have passed expiration before confirming
	if _, err := h.SeatHoldRepo.ExpireHoldsTx(ctx, tx, scheduleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	holds, err := h.SeatHoldRepo.ActiveHoldsByUserAndScheduleTx(ctx, tx, userID, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load holds"})
	}
	if len(holds) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no active holds for this schedule"})
	}
	// compute fares from the held segments
	total := uint32(0)
	fares := make([]uint32, len(holds))
	for i, hld := range holds {
		seg, ok := allocation.ResolveSegment(stops, hld.BoardAt, hld.ExitAt)
		if !ok {
			return c.JSON(http.StatusConflict, echo.Map{"error": "held segment no longer resolves on this route"})
		}
		fare := uint32(seg.Exit-seg.Board) * sched.FarePerStopCents
		fares[i] = fare
		total += fare
	}
	resRec := &repository.ReservationRecord{
		UserID:           userID,
		ScheduleID:       scheduleID,
		Status:           "CONFIRMED",
		TotalAmountCents: total,
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, resRec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	resSeats := make([]repository.ReservationSeatRecord, 0, len(holds))
	bookings := make([]repository.SeatBookingRecord, 0, len(holds))
	for i, hld := range holds {
		resSeats = append(resSeats, repository.ReservationSeatRecord{
			ReservationID: resRec.ID,
			ScheduleID:    scheduleID,
			SeatID:        hld.SeatID,
			BoardAt:       hld.BoardAt,
			ExitAt:        hld.ExitAt,
			FareCents:     fares[i],
		})
		bookings = append(bookings, repository.SeatBookingRecord{
			ScheduleID:    scheduleID,
			SeatID:        hld.SeatID,
			ReservationID: resRec.ID,
			BoardAt:       hld.BoardAt,
			ExitAt:        hld.ExitAt,
		})
	}
	if err := h.ReservationRepo.CreateSeatsBulkTx(ctx, tx, resSeats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation seats"})
	}
	if err := h.BookingRepo.CreateBulkTx(ctx, tx, bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seat bookings"})
	}
	if _, err := h.SeatHoldRepo.DeleteByUserAndScheduleTx(ctx, tx, userID, scheduleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete holds"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	// best-effort broker notification after the commit; failures are
	// logged, never surfaced to the customer
	if err := h.publishConfirmation(c, sched, resRec, holds); err != nil {
		log.Printf("booking event publish failed for reservation %d: %v", resRec.ID, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id":     resRec.ID,
		"total_amount_cents": total,
	})
}

// publishConfirmation assembles and publishes the BookingConfirmedEvent
// for a freshly committed reservation.
func (h *CustomerHandler) publishConfirmation(c echo.Context, sched *repository.Schedule, res *repository.ReservationRecord, holds []repository.SeatHoldRecord) error {
	ctx := c.Request().Context()
	rt, err := h.RouteRepo.GetByID(ctx, sched.RouteID)
	if err != nil {
		return err
	}
	bus, err := h.BusRepo.GetByID(ctx, sched.BusID)
	if err != nil {
		return err
	}
	labels := make(map[uint64]string)
	if seats, err := h.SeatRepo.GetByBus(ctx, sched.BusID); err == nil {
		for _, s := range seats {
			labels[s.ID] = s.Label
		}
	}
	event := queue.BookingConfirmedEvent{
		ReservationID:    res.ID,
		UserID:           res.UserID,
		ScheduleID:       sched.ID,
		RouteID:          rt.ID,
		RouteName:        rt.Name,
		BusID:            bus.ID,
		BusName:          bus.Name,
		DepartsAt:        sched.DepartsAt,
		TotalAmountCents: res.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if sched.ArrivesAt.Valid {
		event.ArrivesAt = sched.ArrivesAt.String
	}
	for _, hld := range holds {
		event.Seats = append(event.Seats, queue.BookedSeat{
			Label:   labels[hld.SeatID],
			BoardAt: hld.BoardAt,
			ExitAt:  hld.ExitAt,
		})
	}
	return queue_publisher.PublishBookingConfirmed(ctx, event)
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user along with route, bus and
// seat details.  When no reservations exist, it returns an empty array.
// The response structure matches ReservationDetail defined in the
// repository layer.
func (h *CustomerHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	details, err := h.ReservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": details,
	})
}

// GetReservation handles GET /v1/reservations/:id.  It returns the
// details of a single reservation for the authenticated user.  When
// the reservation does not exist, it responds with 404.  When the
// reservation belongs to a different user, it responds with 403.  Any
// unexpected error results in a 500 response.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	detail, err := h.ReservationRepo.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item": detail,
	})
}

// DeleteReservation handles DELETE /v1/reservations/:id.  It cancels a
// reservation belonging to the current user if the bus has not yet
// departed.  The reservation row is kept with status CANCELLED while
// its seat bookings are cancelled so the segments free up for resale.
// It returns 204 on success, 404 when the reservation does not exist,
// 403 when it belongs to another user, and 409 when the bus has
// already departed.  All operations are executed within a transaction.
func (h *CustomerHandler) DeleteReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
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
	_, departsAt, _, err := h.ReservationRepo.GetInfoForUserTx(ctx, tx, resID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation info"})
	}
	// departure has passed: the trip is sunk and cannot be cancelled
	if !departsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bus already departed"})
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, resID, "CANCELLED"); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	if err := h.BookingRepo.CancelByReservationTx(ctx, tx, resID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
