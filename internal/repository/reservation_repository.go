package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ReservationRepo provides CRUD operations for reservations and their seats.
// Reservations group together one or more seats for a particular schedule
// and user.  Seats reserved under a reservation are stored in the
// reservation_seats table together with the boarding segment and fare that
// were agreed at confirmation time.  All timestamp fields are assumed to
// be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationRecord mirrors the schema of the reservations table.  It is
// used internally by the repository when constructing or scanning rows.
// Business logic should use the model.Reservation type instead.
type ReservationRecord struct {
	ID               uint64
	UserID           uint64
	ScheduleID       uint64
	Status           string
	TotalAmountCents uint32
	PaymentRef       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReservationSeatRecord mirrors the reservation_seats table.  It maps a
// reservation to a specific seat, segment and fare.  Only fields needed
// for insertion are exposed.
type ReservationSeatRecord struct {
	ReservationID uint64
	ScheduleID    uint64
	SeatID        uint64
	BoardAt       string
	ExitAt        string
	FareCents     uint32
}

// ReservedSeat is one seat entry inside a reservation detail.  Each seat
// keeps its own segment because a single reservation may, after a
// reoptimization, hold seats whose labels differ from what was first
// offered while the segment never changes.
type ReservedSeat struct {
	SeatID    uint64 `json:"seat_id"`
	Label     string `json:"label"`
	RowNo     int    `json:"row_no"`
	SeatCol   int    `json:"seat_col"`
	BoardAt   string `json:"board_at"`
	ExitAt    string `json:"exit_at"`
	FareCents uint32 `json:"fare_cents"`
}

// ReservationDetail encapsulates a reservation along with related schedule,
// route and bus information and the seats reserved.  It is returned by
// ListByUser for display to customers.
type ReservationDetail struct {
	ID               uint64         `json:"id"`
	ScheduleID       uint64         `json:"schedule_id"`
	Status           string         `json:"status"`
	TotalAmountCents uint32         `json:"total_amount_cents"`
	RouteName        string         `json:"route_name"`
	DepartsAt        *string        `json:"departs_at"`
	ArrivesAt        *string        `json:"arrives_at"`
	BusID            uint64         `json:"bus_id"`
	BusName          string         `json:"bus_name"`
	PlateNumber      *string        `json:"plate_number,omitempty"`
	Seats            []ReservedSeat `json:"seats"`
}

// OperatorReservationDetail extends ReservationDetail with the ID of the
// user who created the reservation and the optional payment reference.
// Operator endpoints use it to expose the customer and payment details
// alongside route, bus and seat information.
type OperatorReservationDetail struct {
	ID               uint64         `json:"id"`
	UserID           uint64         `json:"user_id"`
	ScheduleID       uint64         `json:"schedule_id"`
	Status           string         `json:"status"`
	TotalAmountCents uint32         `json:"total_amount_cents"`
	PaymentRef       *string        `json:"payment_ref,omitempty"`
	RouteName        string         `json:"route_name"`
	DepartsAt        *string        `json:"departs_at"`
	ArrivesAt        *string        `json:"arrives_at"`
	BusID            uint64         `json:"bus_id"`
	BusName          string         `json:"bus_name"`
	PlateNumber      *string        `json:"plate_number,omitempty"`
	Seats            []ReservedSeat `json:"seats"`
}

// dbTimeToISO converts a MySQL DATETIME string to RFC3339 in UTC.  Empty
// and zero values yield nil.
func dbTimeToISO(s sql.NullString) *string {
	if !s.Valid || strings.TrimSpace(s.String) == "" || s.String == "0001-01-01 00:00:00" {
		return nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s.String)
	if err != nil {
		return nil
	}
	iso := t.UTC().Format(time.RFC3339)
	return &iso
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  It populates the generated ID on the provided record and
// queries the row back to fill defaults.  The caller must commit or
// rollback the transaction.  Status should be a valid enumeration
// ('PENDING','CONFIRMED','CANCELLED').
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
	const q = `INSERT INTO reservations (user_id, schedule_id, status, total_amount_cents) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.ScheduleID, res.Status, res.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT id, user_id, schedule_id, status, total_amount_cents, payment_ref, created_at, updated_at FROM reservations WHERE id = ?`
	var paymentRef sql.NullString
	err = tx.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.UserID, &res.ScheduleID, &res.Status, &res.TotalAmountCents,
		&paymentRef, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if paymentRef.Valid {
		pr := paymentRef.String
		res.PaymentRef = &pr
	}
	return nil
}

// CreateSeatsBulkTx inserts multiple reservation_seats rows in a single
// statement.  The caller must supply the reservation ID in each record.
// The insertion occurs within the provided transaction.  Passing an empty
// slice has no effect and returns nil.
func (r *ReservationRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []ReservationSeatRecord) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_id, schedule_id, seat_id, board_at, exit_at, fare_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, s.ReservationID, s.ScheduleID, s.SeatID, s.BoardAt, s.ExitAt, s.FareCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// seatsForReservations fetches all reserved seats for the given reservation
// IDs in one query and appends them to the details addressed by index.
func (r *ReservationRepo) seatsForReservations(ctx context.Context, ids []interface{}, appendSeat func(resID uint64, s ReservedSeat)) error {
	placeholders := make([]string, len(ids))
	for i := range ids {
		placeholders[i] = "?"
	}
	seatQuery := `SELECT rs.reservation_id, rs.seat_id, se.label, se.row_no, se.seat_col, rs.board_at, rs.exit_at, rs.fare_cents
	              FROM reservation_seats rs
	              JOIN seats se ON se.id = rs.seat_id
	              WHERE rs.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY rs.reservation_id, se.row_no, se.seat_col`
	rows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid uint64
		var s ReservedSeat
		if err := rows.Scan(&rid, &s.SeatID, &s.Label, &s.RowNo, &s.SeatCol, &s.BoardAt, &s.ExitAt, &s.FareCents); err != nil {
			return err
		}
		appendSeat(rid, s)
	}
	return rows.Err()
}

// GetByIDForUser returns a single reservation for the given user.  It
// loads the reservation's schedule, route and bus details and populates
// the list of seats booked under the reservation.  When no reservation
// with the specified ID exists for the user, sql.ErrNoRows is returned.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = `SELECT r.id, r.schedule_id, r.status, r.total_amount_cents,
	                  rt.name, sc.departs_at, sc.arrives_at,
	                  b.id, b.name, b.plate_number
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN routes rt ON rt.id = sc.route_id
	           JOIN buses b ON b.id = sc.bus_id
	           WHERE r.id = ? AND r.user_id = ?`
	var det ReservationDetail
	var plate sql.NullString
	var departStr, arriveStr sql.NullString
	err := r.db.QueryRowContext(ctx, q, reservationID, userID).Scan(
		&det.ID, &det.ScheduleID, &det.Status, &det.TotalAmountCents,
		&det.RouteName, &departStr, &arriveStr,
		&det.BusID, &det.BusName, &plate,
	)
	if err != nil {
		return nil, err
	}
	det.DepartsAt = dbTimeToISO(departStr)
	det.ArrivesAt = dbTimeToISO(arriveStr)
	if plate.Valid {
		p := plate.String
		det.PlateNumber = &p
	}
	det.Seats = []ReservedSeat{}
	if err := r.seatsForReservations(ctx, []interface{}{det.ID}, func(_ uint64, s ReservedSeat) {
		det.Seats = append(det.Seats, s)
	}); err != nil {
		return nil, err
	}
	return &det, nil
}

// GetByIDForOperator returns a reservation and its details when accessed
// by the operator who runs the schedule's route.  It verifies ownership
// through the route before returning data.  It returns ErrForbidden when
// the caller does not operate the underlying route and sql.ErrNoRows when
// the reservation does not exist.
func (r *ReservationRepo) GetByIDForOperator(ctx context.Context, reservationID, operatorID uint64) (*OperatorReservationDetail, error) {
	const checkQ = `SELECT rt.operator_id
	                FROM reservations r
	                JOIN schedules sc ON sc.id = r.schedule_id
	                JOIN routes rt ON rt.id = sc.route_id
	                WHERE r.id = ?`
	var actualOperatorID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, reservationID).Scan(&actualOperatorID); err != nil {
		return nil, err
	}
	if actualOperatorID != operatorID {
		return nil, ErrForbidden
	}
	const q = `SELECT r.id, r.user_id, r.schedule_id, r.status, r.total_amount_cents, r.payment_ref,
	                  rt.name, sc.departs_at, sc.arrives_at,
	                  b.id, b.name, b.plate_number
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN routes rt ON rt.id = sc.route_id
	           JOIN buses b ON b.id = sc.bus_id
	           WHERE r.id = ?`
	var det OperatorReservationDetail
	var payRef sql.NullString
	var plate sql.NullString
	var departStr, arriveStr sql.NullString
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&det.ID, &det.UserID, &det.ScheduleID, &det.Status, &det.TotalAmountCents, &payRef,
		&det.RouteName, &departStr, &arriveStr,
		&det.BusID, &det.BusName, &plate,
	); err != nil {
		return nil, err
	}
	if payRef.Valid {
		ref := payRef.String
		det.PaymentRef = &ref
	}
	det.DepartsAt = dbTimeToISO(departStr)
	det.ArrivesAt = dbTimeToISO(arriveStr)
	if plate.Valid {
		p := plate.String
		det.PlateNumber = &p
	}
	det.Seats = []ReservedSeat{}
	if err := r.seatsForReservations(ctx, []interface{}{det.ID}, func(_ uint64, s ReservedSeat) {
		det.Seats = append(det.Seats, s)
	}); err != nil {
		return nil, err
	}
	return &det, nil
}

// ListByScheduleForOperator returns all reservations for a given schedule
// when accessed by the operator of its route.  It verifies that the
// schedule belongs to the operator before returning the list; otherwise
// ErrForbidden is returned.  Reservations are ordered by creation time
// descending.
func (r *ReservationRepo) ListByScheduleForOperator(ctx context.Context, scheduleID, operatorID uint64) ([]OperatorReservationDetail, error) {
	const checkQ = `SELECT rt.operator_id
	                FROM schedules sc
	                JOIN routes rt ON rt.id = sc.route_id
	                WHERE sc.id = ?`
	var actualOperatorID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, scheduleID).Scan(&actualOperatorID); err != nil {
		return nil, err
	}
	if actualOperatorID != operatorID {
		return nil, ErrForbidden
	}
	const q = `SELECT r.id, r.user_id, r.schedule_id, r.status, r.total_amount_cents, r.payment_ref,
	                  rt.name, sc.departs_at, sc.arrives_at,
	                  b.id, b.name, b.plate_number
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN routes rt ON rt.id = sc.route_id
	           JOIN buses b ON b.id = sc.bus_id
	           WHERE r.schedule_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OperatorReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d OperatorReservationDetail
		var payRef sql.NullString
		var plate sql.NullString
		var departStr, arriveStr sql.NullString
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ScheduleID, &d.Status, &d.TotalAmountCents, &payRef,
			&d.RouteName, &departStr, &arriveStr,
			&d.BusID, &d.BusName, &plate,
		); err != nil {
			return nil, err
		}
		if payRef.Valid {
			ref := payRef.String
			d.PaymentRef = &ref
		}
		d.DepartsAt = dbTimeToISO(departStr)
		d.ArrivesAt = dbTimeToISO(arriveStr)
		if plate.Valid {
			p := plate.String
			d.PlateNumber = &p
		}
		d.Seats = []ReservedSeat{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	if err := r.seatsForReservations(ctx, ids, func(rid uint64, s ReservedSeat) {
		if idx, ok := index[rid]; ok {
			details[idx].Seats = append(details[idx].Seats, s)
		}
	}); err != nil {
		return nil, err
	}
	return details, nil
}

// GetInfoForUserTx returns the schedule ID, departure time and seat IDs
// for a reservation within a transaction, validating that the reservation
// belongs to the specified user.  It returns sql.ErrNoRows when the
// reservation does not exist and ErrForbidden when the reservation
// belongs to a different user.  The returned time is in UTC.
func (r *ReservationRepo) GetInfoForUserTx(ctx context.Context, tx *sql.Tx, reservationID, userID uint64) (uint64, time.Time, []uint64, error) {
	const q = `SELECT r.schedule_id, sc.departs_at, r.user_id
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           WHERE r.id = ?`
	var scheduleID uint64
	var departStr string
	var actualUserID uint64
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(&scheduleID, &departStr, &actualUserID)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	if actualUserID != userID {
		return 0, time.Time{}, nil, ErrForbidden
	}
	t, err := time.Parse("2006-01-02 15:04:05", departStr)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	const seatQ = `SELECT seat_id FROM reservation_seats WHERE reservation_id = ?`
	rows, err := tx.QueryContext(ctx, seatQ, reservationID)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	defer rows.Close()
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return 0, time.Time{}, nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return 0, time.Time{}, nil, err
	}
	return scheduleID, t.UTC(), seatIDs, nil
}

// GetInfoForOperatorTx mirrors GetInfoForUserTx but validates that the
// reservation's route belongs to the given operator instead of matching
// the reserving user.
func (r *ReservationRepo) GetInfoForOperatorTx(ctx context.Context, tx *sql.Tx, reservationID, operatorID uint64) (uint64, time.Time, []uint64, error) {
	const q = `SELECT r.schedule_id, sc.departs_at, rt.operator_id
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN routes rt ON rt.id = sc.route_id
	           WHERE r.id = ?`
	var scheduleID uint64
	var departStr string
	var actualOperatorID uint64
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(&scheduleID, &departStr, &actualOperatorID)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	if actualOperatorID != operatorID {
		return 0, time.Time{}, nil, ErrForbidden
	}
	t, err := time.Parse("2006-01-02 15:04:05", departStr)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	const seatQ = `SELECT seat_id FROM reservation_seats WHERE reservation_id = ?`
	rows, err := tx.QueryContext(ctx, seatQ, reservationID)
	if err != nil {
		return 0, time.Time{}, nil, err
	}
	defer rows.Close()
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return 0, time.Time{}, nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return 0, time.Time{}, nil, err
	}
	return scheduleID, t.UTC(), seatIDs, nil
}

// UpdateStatusTx sets the status of a reservation inside a transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64, status string) error {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, reservationID)
	return err
}

// ReplaceSeatTx moves one reserved seat to another seat ID, used when a
// reoptimization relocates a passenger.  The segment and fare stay as
// booked.  It returns ErrConflict when the target seat already carries a
// reservation_seats row for the same schedule segment holder.
func (r *ReservationRepo) ReplaceSeatTx(ctx context.Context, tx *sql.Tx, reservationID, fromSeatID, toSeatID uint64) error {
	const q = `UPDATE reservation_seats SET seat_id = ? WHERE reservation_id = ? AND seat_id = ?`
	res, err := tx.ExecContext(ctx, q, toSeatID, reservationID, fromSeatID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns all reservations for the given user along with
// schedule, route, bus and seat details.  Reservations are ordered by
// creation time descending (newest first).  When no reservations exist,
// an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.schedule_id, r.status, r.total_amount_cents,
	                  rt.name, sc.departs_at, sc.arrives_at,
	                  b.id, b.name, b.plate_number
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN routes rt ON rt.id = sc.route_id
	           JOIN buses b ON b.id = sc.bus_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		var plate sql.NullString
		var departStr, arriveStr sql.NullString
		if err := rows.Scan(
			&d.ID, &d.ScheduleID, &d.Status, &d.TotalAmountCents,
			&d.RouteName, &departStr, &arriveStr,
			&d.BusID, &d.BusName, &plate,
		); err != nil {
			return nil, err
		}
		d.DepartsAt = dbTimeToISO(departStr)
		d.ArrivesAt = dbTimeToISO(arriveStr)
		if plate.Valid {
			p := plate.String
			d.PlateNumber = &p
		}
		d.Seats = []ReservedSeat{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	if err := r.seatsForReservations(ctx, ids, func(rid uint64, s ReservedSeat) {
		if idx, ok := index[rid]; ok {
			details[idx].Seats = append(details[idx].Seats, s)
		}
	}); err != nil {
		return nil, err
	}
	return details, nil
}
