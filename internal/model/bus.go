package model

import "time"

// Bus represents a physical vehicle owned by an operator.  Each bus has
// a seat grid described by SeatRows and SeatCols; the actual seats
// (including the driver seat and any guide seat) live in the `seats`
// table and are regenerated whenever the layout changes.  Columns that
// are not consecutive in a row are separated by the aisle.
//
// Fields:
//  ID          – primary key identifier.
//  OperatorID  – user ID of the bus owner.
//  Name        – unique bus name per operator.
//  PlateNumber – registration plate, optional.
//  SeatRows    – number of passenger seat rows (nil if unspecified).
//  SeatCols    – number of seat columns per row including the aisle gap
//                (nil if unspecified).
//  IsActive    – whether the bus can be scheduled.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Bus struct {
	ID          uint64    // buses.id
	OperatorID  uint64    // buses.operator_id
	Name        string    // buses.name
	PlateNumber *string   // buses.plate_number (nullable)
	SeatRows    *uint32   // buses.seat_rows (nullable)
	SeatCols    *uint32   // buses.seat_cols (nullable)
	IsActive    bool      // buses.is_active
	CreatedAt   time.Time // buses.created_at
	UpdatedAt   time.Time // buses.updated_at
}
