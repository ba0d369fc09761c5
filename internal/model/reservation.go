package model

import "time"

// Reservation records a user's booking for a scheduled departure.  It
// aggregates one or more seat segments booked under a single
// transaction and tracks the overall status and total fare.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the reservation.
//  ScheduleID       – departure being reserved.
//  Status           – state of the reservation (PENDING, CONFIRMED,
//                     CANCELLED).
//  TotalAmountCents – total fare in cents for all seat segments.
//  PaymentRef       – external payment reference, if any.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               uint64    // reservations.id
	UserID           uint64    // reservations.user_id
	ScheduleID       uint64    // reservations.schedule_id
	Status           string    // reservations.status
	TotalAmountCents uint32    // reservations.total_amount_cents
	PaymentRef       *string   // reservations.payment_ref (nullable)
	CreatedAt        time.Time // reservations.created_at
	UpdatedAt        time.Time // reservations.updated_at
}

// ReservationSeat links a reservation to one seat segment on a
// schedule.  Each record represents a single passenger's seat together
// with the portion of the route they travel.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reference to the reservation.
//  ScheduleID    – departure on which the seat is booked.
//  SeatID        – seat that has been reserved.
//  BoardAt       – boarding stop name.
//  ExitAt        – exit stop name.
//  FareCents     – fare for this seat segment in cents.
//  CreatedAt     – creation timestamp.
type ReservationSeat struct {
	ID            uint64    // reservation_seats.id
	ReservationID uint64    // reservation_seats.reservation_id
	ScheduleID    uint64    // reservation_seats.schedule_id
	SeatID        uint64    // reservation_seats.seat_id
	BoardAt       string    // reservation_seats.board_at
	ExitAt        string    // reservation_seats.exit_at
	FareCents     uint32    // reservation_seats.fare_cents
	CreatedAt     time.Time // reservation_seats.created_at
}
