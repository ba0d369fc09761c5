// Package repository contains data access logic for Schedule domain
// operations. A Schedule represents one departure of a bus along a route;
// every booking and hold hangs off a schedule.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions
)

// Schedule represents a departure of a bus along a route.
// NOTE: Time strings are stored in DB format "2006-01-02 15:04:05" (UTC).
type Schedule struct {
	ID               uint64 // ID is the primary key of the schedule
	RouteID          uint64 // RouteID references the route being served
	BusID            uint64 // BusID references the assigned bus
	DepartsAt        string         // DepartsAt is the DB timestamp of departure ("YYYY-MM-DD HH:MM:SS" UTC)
	ArrivesAt        sql.NullString // ArrivesAt is the estimated arrival at the last stop; optional
	FarePerStopCents uint32 // FarePerStopCents is the fare per stop interval in cents
	Status           string // Status is the state of the schedule (SCHEDULED, CANCELLED, DEPARTED)
	CreatedAt        string // CreatedAt records row creation time
	UpdatedAt        string // UpdatedAt records last update time
}

// ErrScheduleNotFound indicates that a schedule was not located in the DB.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo manages persistence for schedules.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new schedule and populates the generated ID plus the
// DB-default fields (status, timestamps) on the given struct.
func (r *ScheduleRepo) Create(ctx context.Context, s *Schedule) error {
	const q = `INSERT INTO schedules (route_id, bus_id, departs_at, arrives_at, fare_per_stop_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.RouteID, s.BusID, s.DepartsAt, s.ArrivesAt, s.FarePerStopCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT id, route_id, bus_id, departs_at, arrives_at, fare_per_stop_cents, status, created_at, updated_at
	             FROM schedules WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.RouteID, &s.BusID, &s.DepartsAt, &s.ArrivesAt, &s.FarePerStopCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID retrieves a schedule by its ID.  It returns ErrScheduleNotFound
// if there is no matching row.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*Schedule, error) {
	const q = `SELECT id, route_id, bus_id, departs_at, arrives_at, fare_per_stop_cents, status, created_at, updated_at
	           FROM schedules WHERE id = ?`
	var s Schedule
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.RouteID, &s.BusID, &s.DepartsAt, &s.ArrivesAt, &s.FarePerStopCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByRoute returns all schedules of a route ordered by departure time.
func (r *ScheduleRepo) ListByRoute(ctx context.Context, routeID uint64) ([]*Schedule, error) {
	const q = `SELECT id, route_id, bus_id, departs_at, arrives_at, fare_per_stop_cents, status, created_at, updated_at
	           FROM schedules WHERE route_id = ? ORDER BY departs_at`
	rows, err := r.db.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Schedule
	for rows.Next() {
		s := new(Schedule)
		if err := rows.Scan(&s.ID, &s.RouteID, &s.BusID, &s.DepartsAt, &s.ArrivesAt, &s.FarePerStopCents, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus transitions a schedule to a new status, enforcing route
// ownership via the join.  Returns sql.ErrNoRows when not found or not
// owned by this operator.
func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id, operatorID uint64, status string) error {
	const q = `UPDATE schedules sc
	           JOIN routes rt ON rt.id = sc.route_id
	           SET sc.status = ?, sc.updated_at = CURRENT_TIMESTAMP
	           WHERE sc.id = ? AND rt.operator_id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id, operatorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
