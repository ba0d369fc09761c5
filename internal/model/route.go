package model

import "time"

// Route represents a bus route operated by one user.  A route owns an
// ordered sequence of stops (see RouteStop); the stop order reflects the
// physical direction of travel from the first stop to the last.  This
// struct corresponds to a row in the `routes` table.
//
// Fields:
//  ID         – primary key identifier.
//  OperatorID – user ID of the operator who owns the route.
//  Name       – unique route name per operator (e.g. "Ubungo - Posta").
//  Direction  – travel direction tag (OUTBOUND or INBOUND).
//  IsActive   – whether the route is open for scheduling.
//  CreatedAt  – timestamp when the route was created.
//  UpdatedAt  – timestamp of last update.
type Route struct {
	ID         uint64    // routes.id
	OperatorID uint64    // routes.operator_id
	Name       string    // routes.name
	Direction  string    // routes.direction
	IsActive   bool      // routes.is_active
	CreatedAt  time.Time // routes.created_at
	UpdatedAt  time.Time // routes.updated_at
}

// RouteStop is one named stop on a route.  Position is the zero-based
// index within the route's stop sequence; the allocation engine resolves
// (board, exit) stop names against this ordering.  Stop names are
// matched after trimming and case-folding, and duplicate names resolve
// to the first occurrence.
//
// Fields:
//  ID        – primary key identifier.
//  RouteID   – route to which this stop belongs.
//  Name      – display name of the stop.
//  Position  – zero-based order of the stop along the route.
//  CreatedAt – creation timestamp.
type RouteStop struct {
	ID        uint64    // route_stops.id
	RouteID   uint64    // route_stops.route_id
	Name      string    // route_stops.name
	Position  uint32    // route_stops.position
	CreatedAt time.Time // route_stops.created_at
}
