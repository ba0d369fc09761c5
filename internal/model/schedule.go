package model

import "time"

// Schedule represents one departure of a bus along a route.  Seat
// bookings and holds always refer to a schedule, never to a bus
// directly, because the same bus serves many departures.  Fares are
// charged per stop travelled.
//
// Fields:
//  ID               – primary key identifier.
//  RouteID          – route being served.
//  BusID            – bus assigned to the departure.
//  DepartsAt        – scheduled departure time of the first stop.
//  ArrivesAt        – estimated arrival at the last stop, if known.
//  FarePerStopCents – fare in cents per stop interval travelled.
//  Status           – current state (SCHEDULED, CANCELLED, DEPARTED).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Schedule struct {
	ID               uint64    // schedules.id
	RouteID          uint64    // schedules.route_id
	BusID            uint64    // schedules.bus_id
	DepartsAt        time.Time  // schedules.departs_at
	ArrivesAt        *time.Time // schedules.arrives_at, nil when not estimated
	FarePerStopCents uint32     // schedules.fare_per_stop_cents
	Status           string    // schedules.status
	CreatedAt        time.Time // schedules.created_at
	UpdatedAt        time.Time // schedules.updated_at
}
