package repository // repository for seat booking persistence

import (
	"context"      // context for managing deadlines
	"database/sql" // sql provides DB interfaces
)

// SeatBookingRecord represents one passenger occupying a seat for a
// segment of a scheduled trip.  The set of ACTIVE records for a schedule
// is the occupancy snapshot the allocation engine runs against.
type SeatBookingRecord struct {
	ID            uint64 // primary key of the seat_bookings row
	ScheduleID    uint64 // ScheduleID references the departure
	SeatID        uint64 // SeatID references the seat
	ReservationID uint64 // ReservationID references the owning reservation
	BoardAt       string // BoardAt is the boarding stop name
	ExitAt        string // ExitAt is the exit stop name
	Status        string // Status is ACTIVE or CANCELLED
	CreatedAt     string // CreatedAt records when the row was inserted
	UpdatedAt     string // UpdatedAt records last modification
}

// BookingRepo encapsulates database operations for seat_bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo given a DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// ActiveBySchedule returns every ACTIVE booking of a schedule.  Cancelled
// bookings are filtered out here so callers never have to re-check; the
// engine additionally ignores bookings whose stops no longer resolve
// against the route.
func (r *BookingRepo) ActiveBySchedule(ctx context.Context, scheduleID uint64) ([]SeatBookingRecord, error) {
	const q = `SELECT id, schedule_id, seat_id, reservation_id, board_at, exit_at, status, created_at, updated_at
	           FROM seat_bookings
	           WHERE schedule_id = ? AND status = 'ACTIVE'
	           ORDER BY seat_id, id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeatBookingRecord
	for rows.Next() {
		var b SeatBookingRecord
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.SeatID, &b.ReservationID, &b.BoardAt, &b.ExitAt, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveByScheduleTx is ActiveBySchedule inside the caller's transaction,
// used when confirming a reservation so the availability re-check and the
// insert see the same snapshot.
func (r *BookingRepo) ActiveByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]SeatBookingRecord, error) {
	const q = `SELECT id, schedule_id, seat_id, reservation_id, board_at, exit_at, status, created_at, updated_at
	           FROM seat_bookings
	           WHERE schedule_id = ? AND status = 'ACTIVE'
	           ORDER BY seat_id, id`
	rows, err := tx.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeatBookingRecord
	for rows.Next() {
		var b SeatBookingRecord
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.SeatID, &b.ReservationID, &b.BoardAt, &b.ExitAt, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBulkTx inserts multiple seat_bookings within the provided
// transaction.  Status defaults to ACTIVE in the database.  Passing an
// empty slice has no effect and returns nil.
func (r *BookingRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, bookings []SeatBookingRecord) error {
	if len(bookings) == 0 {
		return nil
	}
	query := `INSERT INTO seat_bookings (schedule_id, seat_id, reservation_id, board_at, exit_at) VALUES `
	args := make([]interface{}, 0, len(bookings)*5)
	for i, b := range bookings {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, b.ScheduleID, b.SeatID, b.ReservationID, b.BoardAt, b.ExitAt)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CancelByReservationTx marks all bookings of a reservation CANCELLED.
// The rows are kept for reporting; only ACTIVE rows count as occupancy.
func (r *BookingRepo) CancelByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	const q = `UPDATE seat_bookings
	           SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP
	           WHERE reservation_id = ? AND status = 'ACTIVE'`
	_, err := tx.ExecContext(ctx, q, reservationID)
	return err
}
