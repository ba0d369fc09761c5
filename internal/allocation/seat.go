// Package allocation implements the segment-aware seat allocation engine.
// A bus seat is a shared resource that can be booked for arbitrary
// sub-intervals ("segments") of a route's ordered stop sequence.  The
// engine decides which seats are free for a requested segment, scores
// seats by how well a new booking dovetails with existing ones, and
// searches seat combinations that keep groups physically together.
//
// The engine is pure: it performs no I/O, never mutates its inputs and
// holds no state between calls.  Callers hand it a point-in-time snapshot
// of seats and bookings; locking and conflict resolution against
// concurrent bookings belong to the seat-hold subsystem, not here.
package allocation

import (
	"sort"
	"strconv"
	"strings"
)

// Seat type tags.  Driver seats are never offered to passengers; guide
// seats form a last-resort pool used only when no ordinary seat is free.
const (
	SeatTypeDriver   = "DRIVER"
	SeatTypeGuide    = "GUIDE"
	SeatTypeStandard = "STANDARD"
)

// Booking status values.  Only active bookings count toward occupancy.
const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
)

// Booking is one passenger's claim on a seat for a segment of the route.
// BoardAt and ExitAt are stop names resolved against the same stop list
// as the query; bookings whose stops do not resolve are skipped, not
// treated as blocking.
type Booking struct {
	BoardAt string
	ExitAt  string
	Status  string
}

// Seat is the engine's view of a physical seat.  Row is a non-negative
// grid row (front of the bus is row 0); Col is the 1-based column within
// the row.  Seats with unknown placement use RowUnknown / ColUnknown and
// never participate in physical-adjacency scoring.
type Seat struct {
	ID       uint64
	Row      int
	Col      int
	Label    string
	Type     string
	Bookings []Booking
}

// Sentinel values for seats whose grid placement is not known.
const (
	RowUnknown = -1
	ColUnknown = 0
)

// farAway substitutes for unknown rows/columns when ordering seats, so
// unplaced seats sort after every placed one.
const farAway = 1 << 30

// seatKey is the explicit composite ordering key for seats: row, then
// column, then the numeric portion of the label, then the raw label.
// Components stay typed numbers throughout so "10" sorts after "2".
type seatKey struct {
	row   int
	col   int
	num   int
	label string
}

// keyOf builds the ordering key for a seat.  A nil seat gets a key past
// every real one, so callers sorting mixed slices place nils last
// instead of dereferencing them.
func keyOf(s *Seat) seatKey {
	if s == nil {
		return seatKey{row: farAway + 1, col: farAway, num: farAway}
	}
	k := seatKey{row: s.Row, col: s.Col, num: labelNumber(s.Label), label: s.Label}
	if k.row < 0 {
		k.row = farAway
	}
	if k.col <= 0 {
		k.col = farAway
	}
	return k
}

func (a seatKey) compare(b seatKey) int {
	if a.row != b.row {
		return a.row - b.row
	}
	if a.col != b.col {
		return a.col - b.col
	}
	if a.num != b.num {
		return a.num - b.num
	}
	return strings.Compare(a.label, b.label)
}

// labelNumber extracts the first run of digits from a seat label ("12A"
// -> 12).  Labels without digits sort after all numbered ones.
func labelNumber(label string) int {
	start := -1
	for i, r := range label {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(label[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(label[start:])
		return n
	}
	return farAway
}

// sortSeats orders seats into stable physical presentation order
// (row, column, label).  It sorts a copy and leaves the input alone.
func sortSeats(seats []*Seat) []*Seat {
	out := make([]*Seat, len(seats))
	copy(out, seats)
	sort.Slice(out, func(i, j int) bool {
		return keyOf(out[i]).compare(keyOf(out[j])) < 0
	})
	return out
}
