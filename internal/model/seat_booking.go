package model

import "time"

// SeatBooking records one passenger occupying a seat for a segment of a
// scheduled trip.  Several bookings may coexist on one seat as long as
// their (board, exit) intervals are pairwise non-overlapping; only
// bookings with status ACTIVE count toward occupancy.
//
// Fields:
//  ID            – primary key identifier.
//  ScheduleID    – scheduled departure the booking belongs to.
//  SeatID        – seat being occupied.
//  ReservationID – reservation that produced the booking.
//  BoardAt       – stop name where the passenger boards.
//  ExitAt        – stop name where the passenger gets off.
//  Status        – ACTIVE or CANCELLED.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type SeatBooking struct {
	ID            uint64    // seat_bookings.id
	ScheduleID    uint64    // seat_bookings.schedule_id
	SeatID        uint64    // seat_bookings.seat_id
	ReservationID uint64    // seat_bookings.reservation_id
	BoardAt       string    // seat_bookings.board_at
	ExitAt        string    // seat_bookings.exit_at
	Status        string    // seat_bookings.status
	CreatedAt     time.Time // seat_bookings.created_at
	UpdatedAt     time.Time // seat_bookings.updated_at
}
