// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Route model and repository methods for CRUD and lookup
// operations. A Route represents a one-directional bus line with an ordered
// stop sequence. The stop order is what the seat allocation engine resolves
// (board, exit) names against, so it must always reflect travel order.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// Route represents a bus route persisted in the database. Each route belongs
// to a single operator and owns an ordered list of stops.
// Note: OperatorID, CreatedAt and UpdatedAt should not be exposed via public API responses.
type Route struct {
	ID         uint64 // ID is the unique identifier of the route
	OperatorID uint64 // OperatorID references the users.id of the route operator
	Name       string // Name is the human-friendly name of the route
	Direction  string // Direction is OUTBOUND or INBOUND
	CreatedAt  string // CreatedAt stores when the row was created
	UpdatedAt  string // UpdatedAt stores when the row was last updated
}

// ErrRouteNotFound is returned when a route cannot be found in the DB.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepo encapsulates all database queries related to routes and their
// stop sequences.
type RouteRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewRouteRepo constructs a RouteRepo with the provided DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *RouteRepo) DB() *sql.DB { return r.db }

// Create inserts a new route together with its ordered stop names inside a
// single transaction. On success the route's ID and timestamp fields are
// populated. Positions are assigned from the slice order, starting at zero.
func (r *RouteRepo) Create(ctx context.Context, rt *Route, stops []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO routes (operator_id, name, direction) VALUES (?, ?, ?)`,
		rt.OperatorID, rt.Name, rt.Direction)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	if err := replaceStopsTx(ctx, tx, rt.ID, stops); err != nil {
		return err
	}
	const qSelect = `SELECT operator_id, name, direction, created_at, updated_at FROM routes WHERE id = ?`
	if err := tx.QueryRowContext(ctx, qSelect, rt.ID).
		Scan(&rt.OperatorID, &rt.Name, &rt.Direction, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// replaceStopsTx rewrites the full stop sequence of a route within the
// caller's transaction. Wholesale replacement keeps positions dense and
// avoids partial reorders leaving gaps.
func replaceStopsTx(ctx context.Context, tx *sql.Tx, routeID uint64, stops []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ?`, routeID); err != nil {
		return err
	}
	if len(stops) == 0 {
		return nil
	}
	query := `INSERT INTO route_stops (route_id, name, position) VALUES `
	args := make([]interface{}, 0, len(stops)*3)
	for i, name := range stops {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, routeID, name, i)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ReplaceStops rewrites the stop sequence of a route owned by the given
// operator. Returns sql.ErrNoRows when the route does not exist and
// ErrForbidden when it belongs to someone else.
func (r *RouteRepo) ReplaceStops(ctx context.Context, routeID, operatorID uint64, stops []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var dbOperator uint64
	if err := tx.QueryRowContext(ctx, `SELECT operator_id FROM routes WHERE id = ?`, routeID).Scan(&dbOperator); err != nil {
		return err
	}
	if dbOperator != operatorID {
		return ErrForbidden
	}
	if err := replaceStopsTx(ctx, tx, routeID, stops); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// StopNames returns the ordered stop names of a route. This is the stops
// array every allocation call resolves segments against; ordering by
// position is essential.
func (r *RouteRepo) StopNames(ctx context.Context, routeID uint64) ([]string, error) {
	const q = `SELECT name FROM route_stops WHERE route_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a route by its ID regardless of operator. It returns
// ErrRouteNotFound if no row is found.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*Route, error) {
	const q = `SELECT id, operator_id, name, direction, created_at, updated_at FROM routes WHERE id = ?`
	var rt Route
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.OperatorID, &rt.Name, &rt.Direction, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// GetByIDAndOperator fetches a route by id but only if it belongs to the
// specified operator. If the route doesn't exist or is owned by someone
// else, ErrRouteNotFound is returned.
func (r *RouteRepo) GetByIDAndOperator(ctx context.Context, id, operatorID uint64) (*Route, error) {
	const q = `SELECT id, operator_id, name, direction, created_at, updated_at FROM routes WHERE id = ? AND operator_id = ?`
	var rt Route
	if err := r.db.QueryRowContext(ctx, q, id, operatorID).Scan(&rt.ID, &rt.OperatorID, &rt.Name, &rt.Direction, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// ListByOperator returns all routes for a specific operator ordered by id.
func (r *RouteRepo) ListByOperator(ctx context.Context, operatorID uint64) ([]*Route, error) {
	const q = `SELECT id, operator_id, name, direction, created_at, updated_at
	           FROM routes WHERE operator_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Route
	for rows.Next() {
		rt := new(Route)
		if err := rows.Scan(&rt.ID, &rt.OperatorID, &rt.Name, &rt.Direction, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns all routes regardless of operator. It is used for public
// browsing endpoints. Only ID, Name and Direction are selected to avoid
// exposing operator or timestamp fields.
func (r *RouteRepo) ListAll(ctx context.Context) ([]*Route, error) {
	const q = `SELECT id, name, direction FROM routes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Route
	for rows.Next() {
		rt := &Route{}
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Direction); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName updates the route name if it belongs to the provided operator.
// It returns sql.ErrNoRows when no row is affected (not found / not owned).
func (r *RouteRepo) UpdateName(ctx context.Context, id, operatorID uint64, name string) error {
	const q = `UPDATE routes
	           SET name = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND operator_id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id, operatorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOperator removes a route and all dependent records (stops,
// schedules, bookings, reservations) provided it belongs to the specified
// operator. If the route does not exist, sql.ErrNoRows is returned. If it
// belongs to a different user, ErrForbidden is returned. The deletion occurs
// within a transaction to maintain integrity.
func (r *RouteRepo) DeleteByIDAndOperator(ctx context.Context, id, operatorID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var dbOperator uint64
	if err = tx.QueryRowContext(ctx, `SELECT operator_id FROM routes WHERE id = ?`, id).Scan(&dbOperator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOperator != operatorID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE rs FROM reservation_seats rs
		 JOIN schedules sc ON sc.id = rs.schedule_id
		 WHERE sc.route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE r FROM reservations r
		 JOIN schedules sc ON sc.id = r.schedule_id
		 WHERE sc.route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE b FROM seat_bookings b
		 JOIN schedules sc ON sc.id = b.schedule_id
		 WHERE sc.route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE h FROM seat_holds h
		 JOIN schedules sc ON sc.id = h.schedule_id
		 WHERE sc.route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
