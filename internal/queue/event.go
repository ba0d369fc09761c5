// Package queue defines message payloads exchanged over the message broker.
package queue

// BookedSeat describes one confirmed seat inside a booking event.  The
// segment is included because different seats of the same reservation may
// cover the same stops under different labels after a reassignment.
type BookedSeat struct {
	Label   string `json:"label"`
	BoardAt string `json:"board_at"`
	ExitAt  string `json:"exit_at"`
}

// BookingConfirmedEvent is published when a reservation is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID    uint64       `json:"reservation_id"`
	UserID           uint64       `json:"user_id"`
	ScheduleID       uint64       `json:"schedule_id"`
	RouteID          uint64       `json:"route_id"`
	RouteName        string       `json:"route_name"`
	BusID            uint64       `json:"bus_id"`
	BusName          string       `json:"bus_name"`
	DepartsAt        string       `json:"departs_at"`
	ArrivesAt        string       `json:"arrives_at"`
	Seats            []BookedSeat `json:"seats"`
	TotalAmountCents uint32       `json:"total_amount_cents"`
	ConfirmedAt      string       `json:"confirmed_at"`
}
