package allocation

// overlaps reports whether two half-open stop intervals conflict.
// [b1,e1) and [b2,e2) conflict iff not (e2 <= b1 or b2 >= e1).
func overlaps(b1, e1, b2, e2 int) bool {
	return !(e2 <= b1 || b2 >= e1)
}

// resolvedBooking is a booking whose stop names resolved validly against
// the current stop list.
type resolvedBooking struct {
	board int
	exit  int
}

// resolveBookings maps a seat's active bookings onto stop intervals.
// Cancelled bookings and bookings with unresolvable or inverted stops
// are skipped; they never block a seat.
func resolveBookings(seat *Seat, stops []string) []resolvedBooking {
	var out []resolvedBooking
	for _, bk := range seat.Bookings {
		if bk.Status != BookingActive {
			continue
		}
		b := StopIndex(stops, bk.BoardAt)
		e := StopIndex(stops, bk.ExitAt)
		if b < 0 || e < 0 || b >= e {
			continue
		}
		out = append(out, resolvedBooking{board: b, exit: e})
	}
	return out
}

// seatFreeFor reports whether none of the seat's active bookings overlap
// the requested segment.
func seatFreeFor(seat *Seat, seg Segment, stops []string) bool {
	for _, bk := range resolveBookings(seat, stops) {
		if overlaps(bk.board, bk.exit, seg.Board, seg.Exit) {
			return false
		}
	}
	return true
}

// IsSeatAvailableForSegment is the single-seat overlap predicate, exposed
// for ad hoc checks (e.g. validating a manual seat click) without running
// full selection.  Driver seats are never available.  It returns false
// for invalid segments rather than failing.
func IsSeatAvailableForSegment(seat *Seat, board, exit string, stops []string) bool {
	if seat == nil || seat.Type == SeatTypeDriver {
		return false
	}
	seg, ok := ResolveSegment(stops, board, exit)
	if !ok {
		return false
	}
	return seatFreeFor(seat, seg, stops)
}

// FreeSeats computes which seats have no overlapping active booking for
// the requested segment.  Driver seats are skipped entirely.  Free seats
// are partitioned into the primary pool (ordinary seats, in deterministic
// row/column/label order) and the guide pool, a last resort used only
// when zero ordinary seats are free.  Both slices are empty on an
// invalid segment.
func FreeSeats(seats []*Seat, board, exit string, stops []string) (regular, guide []*Seat) {
	seg, ok := ResolveSegment(stops, board, exit)
	if !ok {
		return nil, nil
	}
	for _, s := range seats {
		if s == nil || s.Type == SeatTypeDriver {
			continue
		}
		if !seatFreeFor(s, seg, stops) {
			continue
		}
		if s.Type == SeatTypeGuide {
			guide = append(guide, s)
		} else {
			regular = append(regular, s)
		}
	}
	return sortSeats(regular), sortSeats(guide)
}
