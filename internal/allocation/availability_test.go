package allocation

import "testing"

// mkSeat builds a standard seat at the given grid position.
func mkSeat(id uint64, row, col int, label string) *Seat {
	return &Seat{ID: id, Row: row, Col: col, Label: label, Type: SeatTypeStandard}
}

// book appends an active booking and returns the seat for chaining.
func book(s *Seat, board, exit string) *Seat {
	s.Bookings = append(s.Bookings, Booking{BoardAt: board, ExitAt: exit, Status: BookingActive})
	return s
}

var routeABCD = []string{"A", "B", "C", "D"}

func TestOverlapSymmetry(t *testing.T) {
	cases := []struct {
		b1, e1, b2, e2 int
		want           bool
	}{
		{0, 2, 2, 4, false}, // touching, half-open
		{2, 4, 0, 2, false},
		{0, 3, 2, 4, true},
		{2, 4, 0, 3, true},
		{0, 4, 1, 2, true}, // containment
		{1, 2, 0, 4, true},
		{0, 1, 2, 3, false},
	}
	for _, tc := range cases {
		if got := overlaps(tc.b1, tc.e1, tc.b2, tc.e2); got != tc.want {
			t.Errorf("overlaps(%d,%d,%d,%d) = %v, want %v", tc.b1, tc.e1, tc.b2, tc.e2, got, tc.want)
		}
	}
}

func TestSeatFreeOnHandOff(t *testing.T) {
	// Existing passenger rides B->D; a new A->B passenger boards exactly
	// where nobody is seated yet.
	s := book(mkSeat(1, 0, 1, "1"), "B", "D")
	if !IsSeatAvailableForSegment(s, "A", "B", routeABCD) {
		t.Error("seat should be free for A->B when booked B->D")
	}
}

func TestSeatBlockedByOverlap(t *testing.T) {
	s := book(mkSeat(1, 0, 1, "1"), "A", "D")
	if IsSeatAvailableForSegment(s, "B", "C", routeABCD) {
		t.Error("seat booked A->D must not be free for B->C")
	}
}

func TestCancelledBookingIgnored(t *testing.T) {
	s := mkSeat(1, 0, 1, "1")
	s.Bookings = append(s.Bookings, Booking{BoardAt: "A", ExitAt: "D", Status: BookingCancelled})
	if !IsSeatAvailableForSegment(s, "B", "C", routeABCD) {
		t.Error("cancelled booking must not block a seat")
	}
}

func TestUnresolvableBookingIgnored(t *testing.T) {
	s := book(mkSeat(1, 0, 1, "1"), "Nowhere", "D")
	if !IsSeatAvailableForSegment(s, "A", "C", routeABCD) {
		t.Error("booking with unresolvable stop must be skipped, not blocking")
	}
}

func TestDriverSeatNeverAvailable(t *testing.T) {
	s := mkSeat(1, 0, 1, "D1")
	s.Type = SeatTypeDriver
	if IsSeatAvailableForSegment(s, "A", "B", routeABCD) {
		t.Error("driver seat must never be offered")
	}
}

func TestFreeSeatsPartitionsAndOrders(t *testing.T) {
	driver := mkSeat(1, 0, 1, "D")
	driver.Type = SeatTypeDriver
	guide := mkSeat(2, 0, 2, "G")
	guide.Type = SeatTypeGuide
	taken := book(mkSeat(3, 1, 1, "1"), "A", "D")
	// inserted out of order on purpose
	s10 := mkSeat(4, 2, 2, "10")
	s2 := mkSeat(5, 2, 1, "2")

	regular, guides := FreeSeats([]*Seat{driver, guide, taken, s10, s2}, "A", "C", routeABCD)
	if len(regular) != 2 {
		t.Fatalf("expected 2 regular free seats, got %d", len(regular))
	}
	if regular[0].ID != 5 || regular[1].ID != 4 {
		t.Errorf("expected column order 2 then 10, got %q then %q", regular[0].Label, regular[1].Label)
	}
	if len(guides) != 1 || guides[0].ID != 2 {
		t.Errorf("expected guide pool with seat 2, got %v", guides)
	}
}

func TestFreeSeatsInvalidSegment(t *testing.T) {
	regular, guides := FreeSeats([]*Seat{mkSeat(1, 0, 1, "1")}, "C", "A", routeABCD)
	if len(regular) != 0 || len(guides) != 0 {
		t.Error("invalid segment must yield empty pools")
	}
}
