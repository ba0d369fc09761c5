package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
)

// Bus represents a vehicle owned by an operator.  SeatRows and SeatCols
// describe the seat grid used when generating the bus's seats; columns
// beyond the aisle position are numbered with a gap so the allocation
// engine can tell neighbours from across-the-aisle seats.
type Bus struct {
	ID          uint64         // ID is the primary key of the bus
	OperatorID  uint64         // OperatorID references the owning user's ID
	Name        string         // Name is a human readable label for the bus
	PlateNumber sql.NullString // PlateNumber is the optional registration plate
	SeatRows    sql.NullInt32  // SeatRows indicates how many seating rows exist; nullable
	SeatCols    sql.NullInt32  // SeatCols indicates how many seats per row; nullable
	IsActive    bool           // IsActive flag indicates if the bus is currently in use
	CreatedAt   string         // CreatedAt stores creation timestamp
	UpdatedAt   string         // UpdatedAt stores last update timestamp
}

// ErrBusNotFound is returned when a bus lookup fails.
var ErrBusNotFound = errors.New("bus not found")

// BusRepo provides methods to create and retrieve buses.
type BusRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewBusRepo constructs a BusRepo with the given DB handle.
func NewBusRepo(db *sql.DB) *BusRepo {
	return &BusRepo{db: db}
}

// Create inserts a new bus into the database.  The bus must have
// OperatorID and Name set.  After insert the ID field of the bus will be
// set and the record is re-read so timestamp and status fields are
// populated too.
func (r *BusRepo) Create(ctx context.Context, b *Bus) error {
	const qInsert = `INSERT INTO buses (operator_id, name, plate_number, seat_rows, seat_cols)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.OperatorID, b.Name, b.PlateNumber, b.SeatRows, b.SeatCols)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT id, operator_id, name, plate_number, seat_rows, seat_cols, is_active, created_at, updated_at
	                 FROM buses WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, qSelect, b.ID).
		Scan(&b.ID, &b.OperatorID, &b.Name, &b.PlateNumber, &b.SeatRows, &b.SeatCols, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	return nil
}

// GetByID retrieves a bus by its ID regardless of operator.  It returns
// ErrBusNotFound when no row is found.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (*Bus, error) {
	const q = `SELECT id, operator_id, name, plate_number, seat_rows, seat_cols, is_active, created_at, updated_at FROM buses WHERE id = ?`
	var b Bus
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.OperatorID, &b.Name, &b.PlateNumber, &b.SeatRows, &b.SeatCols, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByIDAndOperator retrieves a bus but only if it belongs to the given
// operator.  This helper is used to enforce resource ownership.  If no
// matching bus is found, ErrBusNotFound is returned.
func (r *BusRepo) GetByIDAndOperator(ctx context.Context, id, operatorID uint64) (*Bus, error) {
	const q = `SELECT id, operator_id, name, plate_number, seat_rows, seat_cols, is_active, created_at, updated_at FROM buses WHERE id = ? AND operator_id = ?`
	var b Bus
	err := r.db.QueryRowContext(ctx, q, id, operatorID).Scan(&b.ID, &b.OperatorID, &b.Name, &b.PlateNumber, &b.SeatRows, &b.SeatCols, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByOperator returns all buses for the operator ordered by id.
func (r *BusRepo) ListByOperator(ctx context.Context, operatorID uint64) ([]*Bus, error) {
	const q = `SELECT id, operator_id, name, plate_number, seat_rows, seat_cols, is_active, created_at, updated_at
               FROM buses
               WHERE operator_id = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Bus
	for rows.Next() {
		b := new(Bus)
		if err := rows.Scan(&b.ID, &b.OperatorID, &b.Name, &b.PlateNumber, &b.SeatRows, &b.SeatCols, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOperator updates bus fields (name/plate/seat_rows/seat_cols)
// if the bus belongs to the given operator.  Returns sql.ErrNoRows when not
// found.  Callers changing the layout must regenerate the bus's seats
// afterwards (see SeatRepo.RegenerateForBus).
func (r *BusRepo) UpdateByIDAndOperator(ctx context.Context, b *Bus) error {
	const q = `UPDATE buses
               SET name = ?, plate_number = ?, seat_rows = ?, seat_cols = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND operator_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.Name, b.PlateNumber, b.SeatRows, b.SeatCols, b.ID, b.OperatorID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
