package model

import "time"

// SeatHold represents a temporary hold on a seat segment during
// checkout.  Holds prevent concurrent reservations from grabbing the
// same seat for an overlapping segment while a user is in the process
// of paying.  Holds expire automatically at their expires_at timestamp.
// Board and exit stop names are frozen at hold time so the hold stays
// meaningful even if the route's stop list is being edited concurrently.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who holds the seat.
//  ScheduleID – scheduled departure for which the seat is held.
//  SeatID     – seat being held.
//  BoardAt    – stop name where the passenger would board.
//  ExitAt     – stop name where the passenger would get off.
//  HoldToken  – unique token returned to the client for reference.
//  ExpiresAt  – when the hold expires.
//  CreatedAt  – when the hold was created.
type SeatHold struct {
	ID         uint64    // seat_holds.id
	UserID     uint64    // seat_holds.user_id
	ScheduleID uint64    // seat_holds.schedule_id
	SeatID     uint64    // seat_holds.seat_id
	BoardAt    string    // seat_holds.board_at
	ExitAt     string    // seat_holds.exit_at
	HoldToken  string    // seat_holds.hold_token
	ExpiresAt  time.Time // seat_holds.expires_at
	CreatedAt  time.Time // seat_holds.created_at
}
