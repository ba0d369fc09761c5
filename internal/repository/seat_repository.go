package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"strconv"      // strconv formats generated seat labels
)

// Seat represents a physical seat within a bus. RowNo and SeatCol identify
// the seat's grid position (RowNo is zero-based from the front, SeatCol is
// 1-based; non-consecutive columns imply the aisle); SeatType indicates its
// class.
type Seat struct {
	ID        uint64 // primary key
	BusID     uint64 // FK -> buses.id
	RowNo     int    // grid row from the front (0-based)
	SeatCol   int    // position in the row (1-based, aisle leaves a gap)
	Label     string // printed label, e.g. "12"
	SeatType  string // STANDARD | DRIVER | GUIDE
	IsActive  bool   // soft availability flag (not reservation)
	CreatedAt string
	UpdatedAt string
}

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (bus_id, row_no, seat_col, label, seat_type) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, seat.BusID, seat.RowNo, seat.SeatCol, seat.Label, seat.SeatType)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByBus retrieves all seats of a bus ordered by row then column.
func (r *SeatRepo) GetByBus(ctx context.Context, busID uint64) ([]Seat, error) {
	const q = `SELECT id, bus_id, row_no, seat_col, label, seat_type, is_active, created_at, updated_at
	           FROM seats
	           WHERE bus_id = ?
	           ORDER BY row_no, seat_col`
	rows, err := r.db.QueryContext(ctx, q, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(
			&s.ID, &s.BusID, &s.RowNo, &s.SeatCol, &s.Label, &s.SeatType,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id (no ownership check).
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*Seat, error) {
	const q = `SELECT id, bus_id, row_no, seat_col, label, seat_type, is_active, created_at, updated_at
	           FROM seats WHERE id = ?`
	var s Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.BusID, &s.RowNo, &s.SeatCol, &s.Label, &s.SeatType, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteByBus removes all seats associated with a given bus ID.  This is
// used when a bus layout (rows/columns) is changed and all seats must be
// regenerated.  It does not perform any ownership checks; callers should
// verify the bus belongs to the current operator first.
func (r *SeatRepo) DeleteByBus(ctx context.Context, busID uint64) error {
	const q = `DELETE FROM seats WHERE bus_id = ?`
	_, err := r.db.ExecContext(ctx, q, busID)
	return err
}

// aisleAfterColumn is where the aisle splits a row in the generated
// layout: columns past it are shifted by one so the gap shows up in the
// numbering (2+2 coach => columns 1,2 | 4,5).
const aisleAfterColumn = 2

// BuildSeatGrid produces the seat records for a bus layout of rows x
// cols passenger seats.  Row 0 holds the driver seat and, when the row
// has space, a guide seat across the aisle; passenger rows start at 1.
// Labels are sequential numbers in reading order, which keeps them
// aligned with the row/column ordering the allocation engine uses.
func BuildSeatGrid(busID uint64, rows, cols int) []Seat {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	seats := make([]Seat, 0, rows*cols+2)
	seats = append(seats, Seat{
		BusID: busID, RowNo: 0, SeatCol: 1, Label: "DRV", SeatType: "DRIVER",
	})
	if cols > aisleAfterColumn {
		seats = append(seats, Seat{
			BusID: busID, RowNo: 0, SeatCol: gridColumn(cols), Label: "GDE", SeatType: "GUIDE",
		})
	}
	label := 1
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			seats = append(seats, Seat{
				BusID:    busID,
				RowNo:    row,
				SeatCol:  gridColumn(col),
				Label:    strconv.Itoa(label),
				SeatType: "STANDARD",
			})
			label++
		}
	}
	return seats
}

// gridColumn maps a logical seat position to its grid column, leaving a
// one-column gap for the aisle.
func gridColumn(pos int) int {
	if pos > aisleAfterColumn {
		return pos + 1
	}
	return pos
}

// RegenerateForBus replaces the whole seat grid of a bus in one
// transaction.  Existing bookings reference seats by id, so this must
// only be called while the bus has no schedules with live bookings;
// the handler enforces that rule.
func (r *SeatRepo) RegenerateForBus(ctx context.Context, busID uint64, rows, cols int) ([]Seat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE bus_id = ?`, busID); err != nil {
		return nil, err
	}
	seats := BuildSeatGrid(busID, rows, cols)
	if len(seats) > 0 {
		query := `INSERT INTO seats (bus_id, row_no, seat_col, label, seat_type) VALUES `
		args := make([]interface{}, 0, len(seats)*5)
		for i, seat := range seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, seat.BusID, seat.RowNo, seat.SeatCol, seat.Label, seat.SeatType)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return seats, nil
}
