package model

import "time"

// Seat describes a physical seat in a bus.  RowNo and SeatCol place the
// seat on the grid the allocation engine reasons about: RowNo counts
// from the front of the bus starting at zero, SeatCol is 1-based within
// the row, and non-consecutive columns imply the aisle between them.
// The seat_type distinguishes ordinary passenger seats from the driver
// seat (never sold) and the guide seat (sold only as a last resort).
//
// Fields:
//  ID        – primary key identifier.
//  BusID     – bus to which this seat belongs.
//  RowNo     – grid row from the front, zero-based (-1 when unknown).
//  SeatCol   – 1-based column within the row (0 when unknown).
//  Label     – display label printed on the seat (e.g. "12").
//  SeatType  – type of seat (STANDARD, DRIVER, GUIDE).
//  IsActive  – whether the seat is sellable at all.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Seat struct {
	ID        uint64    // seats.id
	BusID     uint64    // seats.bus_id
	RowNo     int       // seats.row_no
	SeatCol   int       // seats.seat_col
	Label     string    // seats.label
	SeatType  string    // seats.seat_type
	IsActive  bool      // seats.is_active
	CreatedAt time.Time // seats.created_at
	UpdatedAt time.Time // seats.updated_at
}
