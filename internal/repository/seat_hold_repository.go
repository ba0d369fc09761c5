package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SeatHoldRecord represents the persistence model for a seat hold.  A hold
// pins a seat for a specific boarding segment while the customer completes
// checkout.  The segment is frozen at hold time so a later route edit
// cannot silently change what the customer is paying for.
type SeatHoldRecord struct {
	ID         uint64    // primary key of the seat_holds row
	UserID     uint64    // user who holds the seat; must be non-zero for authenticated holds
	ScheduleID uint64    // schedule to which this seat belongs
	SeatID     uint64    // seat being held
	BoardAt    string    // boarding stop name captured at hold time
	ExitAt     string    // exit stop name captured at hold time
	HoldToken  string    // opaque token returned to the client for correlation
	ExpiresAt  time.Time // expiration timestamp
	CreatedAt  time.Time // creation timestamp
}

// SeatHoldRepo provides data access to the seat_holds table.  It is
// responsible for creating, listing and deleting seat holds.  All methods
// behave with respect to UTC timestamps – callers must ensure that
// expiration comparisons are performed in UTC.
type SeatHoldRepo struct {
	db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// ExpireHoldsTx removes all seat holds for a given schedule that have
// expired and returns the seat IDs whose holds were removed.  A hold is
// considered expired when its expires_at timestamp is less than or equal
// to the current UTC time.  The caller must supply an existing transaction
// and is responsible for committing or rolling back.
//
// When there are no expired holds, it returns an empty slice and nil error.
func (r *SeatHoldRepo) ExpireHoldsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_id FROM seat_holds WHERE schedule_id = ? AND expires_at <= UTC_TIMESTAMP()`,
		scheduleID,
	)
	if err != nil {
		return nil, err
	}
	var expiredSeatIDs []uint64
	for rows.Next() {
		var sid uint64
		if scanErr := rows.Scan(&sid); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		expiredSeatIDs = append(expiredSeatIDs, sid)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(expiredSeatIDs) == 0 {
		return []uint64{}, nil
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE schedule_id = ? AND expires_at <= UTC_TIMESTAMP()`,
		scheduleID,
	)
	if err != nil {
		return nil, err
	}
	return expiredSeatIDs, nil
}

// CreateMultipleTx inserts multiple seat_holds within the provided
// transaction.  Each hold must specify ScheduleID, SeatID, UserID,
// BoardAt, ExitAt, HoldToken and ExpiresAt.  The CreatedAt column is
// automatically set by the database.  Passing an empty slice has no
// effect and returns nil.
func (r *SeatHoldRepo) CreateMultipleTx(ctx context.Context, tx *sql.Tx, holds []SeatHoldRecord) error {
	if len(holds) == 0 {
		return nil
	}
	query := `INSERT INTO seat_holds (user_id, schedule_id, seat_id, board_at, exit_at, hold_token, expires_at) VALUES `
	args := make([]interface{}, 0, len(holds)*7)
	for i, h := range holds {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, h.UserID, h.ScheduleID, h.SeatID, h.BoardAt, h.ExitAt, h.HoldToken, h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteByUserAndScheduleTx removes all seat_holds for the specified user
// and schedule and returns the seat IDs that were released.  The deletion
// occurs within the provided transaction; the caller must commit or roll
// back accordingly.
func (r *SeatHoldRepo) DeleteByUserAndScheduleTx(ctx context.Context, tx *sql.Tx, userID, scheduleID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT seat_id FROM seat_holds WHERE user_id = ? AND schedule_id = ?`, userID, scheduleID)
	if err != nil {
		return nil, err
	}
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if scanErr := rows.Scan(&sid); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		seatIDs = append(seatIDs, sid)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seat_holds WHERE user_id = ? AND schedule_id = ?`, userID, scheduleID); err != nil {
		return nil, err
	}
	return seatIDs, nil
}

// ActiveHoldsByUserAndScheduleTx retrieves all non-expired seat holds for a
// particular user and schedule.  Use this when confirming a reservation to
// ensure the seats are still held and have not expired.  The query is
// executed within the provided transaction to support locking if desired
// via SELECT ... FOR UPDATE.
func (r *SeatHoldRepo) ActiveHoldsByUserAndScheduleTx(ctx context.Context, tx *sql.Tx, userID, scheduleID uint64) ([]SeatHoldRecord, error) {
	const q = `SELECT id, user_id, schedule_id, seat_id, board_at, exit_at, hold_token, expires_at, created_at
	           FROM seat_holds
	           WHERE user_id = ? AND schedule_id = ? AND expires_at > UTC_TIMESTAMP()`
	rows, err := tx.QueryContext(ctx, q, userID, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []SeatHoldRecord
	for rows.Next() {
		var h SeatHoldRecord
		if err := rows.Scan(&h.ID, &h.UserID, &h.ScheduleID, &h.SeatID, &h.BoardAt, &h.ExitAt, &h.HoldToken, &h.ExpiresAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}

// ActiveHoldsBySchedule lists every non-expired hold on a schedule.  The
// allocation snapshot treats these as occupied segments so a seat held by
// one customer is never offered to another.
func (r *SeatHoldRepo) ActiveHoldsBySchedule(ctx context.Context, scheduleID uint64) ([]SeatHoldRecord, error) {
	const q = `SELECT id, user_id, schedule_id, seat_id, board_at, exit_at, hold_token, expires_at, created_at
	           FROM seat_holds
	           WHERE schedule_id = ? AND expires_at > UTC_TIMESTAMP()`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []SeatHoldRecord
	for rows.Next() {
		var h SeatHoldRecord
		if err := rows.Scan(&h.ID, &h.UserID, &h.ScheduleID, &h.SeatID, &h.BoardAt, &h.ExitAt, &h.HoldToken, &h.ExpiresAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}

// ActiveHoldsByScheduleTx is ActiveHoldsBySchedule inside the caller's
// transaction, used while placing new holds so the occupancy snapshot and
// the insert observe the same state.
func (r *SeatHoldRepo) ActiveHoldsByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]SeatHoldRecord, error) {
	const q = `SELECT id, user_id, schedule_id, seat_id, board_at, exit_at, hold_token, expires_at, created_at
	           FROM seat_holds
	           WHERE schedule_id = ? AND expires_at > UTC_TIMESTAMP()`
	rows, err := tx.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []SeatHoldRecord
	for rows.Next() {
		var h SeatHoldRecord
		if err := rows.Scan(&h.ID, &h.UserID, &h.ScheduleID, &h.SeatID, &h.BoardAt, &h.ExitAt, &h.HoldToken, &h.ExpiresAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}

// GenerateHoldRecords builds seat hold records for the given user, schedule,
// segment and seat IDs.  Each seat receives a fresh UUID hold token.  The
// expiration is set to the provided timestamp.  This helper is used by
// handlers prior to calling CreateMultipleTx.
func GenerateHoldRecords(userID, scheduleID uint64, seatIDs []uint64, boardAt, exitAt string, expiresAt time.Time) []SeatHoldRecord {
	holds := make([]SeatHoldRecord, 0, len(seatIDs))
	for _, sid := range seatIDs {
		holds = append(holds, SeatHoldRecord{
			UserID:     userID,
			ScheduleID: scheduleID,
			SeatID:     sid,
			BoardAt:    boardAt,
			ExitAt:     exitAt,
			HoldToken:  uuid.NewString(),
			ExpiresAt:  expiresAt,
		})
	}
	return holds
}
