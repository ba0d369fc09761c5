package handler

// This file defines HTTP handlers for operators to manage reservations.
// Operators can view and cancel reservations for schedules that run on
// their own routes.  The handlers rely on middleware to enforce the
// OPERATOR role and on the repositories to verify that the reservation
// or schedule belongs to the caller.  All write paths run inside
// transactions so bookings and reservations stay consistent.

import (
	"database/sql" // for sentinel errors
	"errors"       // for errors.Is comparisons
	"net/http"
	"strconv"
	"time"

	"github.com/iliyamo/bus-seat-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// OperatorReservationHandler groups repositories needed to list, view and
// cancel reservations from the perspective of a route operator.  The
// ScheduleRepo's DB handle is used for starting transactions.
type OperatorReservationHandler struct {
	ReservationRepo *repository.ReservationRepo // access to reservations and their seats
	ScheduleRepo    *repository.ScheduleRepo    // access to schedules for transaction and existence checks
	BookingRepo     *repository.BookingRepo     // access to seat_bookings for cancelling occupancy
}

// NewOperatorReservationHandler constructs an OperatorReservationHandler
// with the required repositories.  All dependencies must be non-nil.
func NewOperatorReservationHandler(resRepo *repository.ReservationRepo, scheduleRepo *repository.ScheduleRepo, bookingRepo *repository.BookingRepo) *OperatorReservationHandler {
	if resRepo == nil || scheduleRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewOperatorReservationHandler")
	}
	return &OperatorReservationHandler{
		ReservationRepo: resRepo,
		ScheduleRepo:    scheduleRepo,
		BookingRepo:     bookingRepo,
	}
}

// ListScheduleReservations handles GET /v1/schedules/:id/reservations.  It
// returns all reservations for a schedule if the schedule runs on a route
// owned by the authenticated operator.  When the route belongs to a
// different operator it returns HTTP 403.  An empty array is returned
// when no reservations exist.
func (h *OperatorReservationHandler) ListScheduleReservations(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	details, err := h.ReservationRepo.ListByScheduleForOperator(ctx, scheduleID, operatorID)
	if err != nil {
		// A missing schedule surfaces as sql.ErrNoRows while a schedule on
		// another operator's route surfaces as ErrForbidden.
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": details,
		"count": len(details),
	})
}

// GetOperatorReservation handles GET /v1/operator/reservations/:id.  It
// returns the details of a reservation when the underlying route is
// owned by the authenticated operator.  It returns HTTP 404 when the
// reservation does not exist and HTTP 403 when another operator owns
// the route.
func (h *OperatorReservationHandler) GetOperatorReservation(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	detail, err := h.ReservationRepo.GetByIDForOperator(ctx, resID, operatorID)
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

// CancelOperatorReservation handles DELETE /v1/operator/reservations/:id.
// It cancels a reservation on behalf of an operator when the route
// belongs to them and the bus has not departed yet.  On success it
// marks the reservation CANCELLED, cancels its seat bookings so the
// segments free up, and returns HTTP 204.  It responds 404 when the
// reservation does not exist, 403 on ownership violations and 409 when
// the bus already departed.
func (h *OperatorReservationHandler) CancelOperatorReservation(c echo.Context) error {
	operatorID, err := getUserID(c)
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
	_, departsAt, _, err := h.ReservationRepo.GetInfoForOperatorTx(ctx, tx, resID, operatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation info"})
	}
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
