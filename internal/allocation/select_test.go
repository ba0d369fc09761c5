package allocation

import (
	"reflect"
	"testing"
)

func ids(seats []*Seat) []uint64 {
	out := make([]uint64, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.ID)
	}
	return out
}

func TestSelectSeatsSingleFreeSeat(t *testing.T) {
	s1 := mkSeat(1, 0, 1, "1")
	got := SelectSeats([]*Seat{s1}, "A", "C", routeABCD, 1)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected [S1], got %v", ids(got))
	}
}

func TestSelectSeatsPrefersHandOff(t *testing.T) {
	// Both seats sit in the front row; the booked seat wins the request
	// that boards exactly where its passenger gets off.
	booked := book(mkSeat(1, 0, 1, "1"), "B", "D")
	empty := mkSeat(2, 0, 2, "2")
	got := SelectSeats([]*Seat{booked, empty}, "A", "B", routeABCD, 1)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("hand-off seat should win, got %v", ids(got))
	}
}

func TestSelectSeatsExcludesOverlaps(t *testing.T) {
	blocked := book(mkSeat(1, 0, 1, "1"), "A", "D")
	free := mkSeat(2, 5, 2, "22")
	got := SelectSeats([]*Seat{blocked, free}, "B", "C", routeABCD, 1)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("overlapping seat must be excluded, got %v", ids(got))
	}
}

func TestSelectSeatsAdjacentPairWins(t *testing.T) {
	// Same row: adjacent pair (cols 1,2) versus across-aisle option (col 4).
	a := mkSeat(1, 2, 1, "5")
	b := mkSeat(2, 2, 2, "6")
	c := mkSeat(3, 2, 4, "7")
	got := SelectSeats([]*Seat{c, a, b}, "A", "D", routeABCD, 2)
	if !reflect.DeepEqual(ids(got), []uint64{1, 2}) {
		t.Fatalf("adjacent pair should win, got %v", ids(got))
	}
}

func TestSelectSeatsReturnsSeatOrder(t *testing.T) {
	// Scoring favours the hand-off seat in the back, but presentation
	// order is physical order regardless of internal ranking.
	back := book(mkSeat(9, 8, 1, "33"), "B", "D")
	front := mkSeat(2, 0, 1, "1")
	got := SelectSeats([]*Seat{back, front}, "A", "B", routeABCD, 2)
	if !reflect.DeepEqual(ids(got), []uint64{2, 9}) {
		t.Fatalf("result must be in physical seat order, got %v", ids(got))
	}
}

func TestSelectSeatsDeterministic(t *testing.T) {
	seats := []*Seat{
		mkSeat(1, 0, 1, "1"), mkSeat(2, 0, 2, "2"), mkSeat(3, 1, 1, "3"),
		mkSeat(4, 1, 2, "4"), mkSeat(5, 2, 1, "5"), mkSeat(6, 2, 2, "6"),
	}
	first := ids(SelectSeats(seats, "A", "D", routeABCD, 3))
	for i := 0; i < 5; i++ {
		again := ids(SelectSeats(seats, "A", "D", routeABCD, 3))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("selection not deterministic: %v vs %v", first, again)
		}
	}
}

func TestSelectSeatsInvalidInput(t *testing.T) {
	seats := []*Seat{mkSeat(1, 0, 1, "1")}
	if got := SelectSeats(seats, "A", "C", []string{"A"}, 1); len(got) != 0 {
		t.Errorf("short stop list must yield no seats, got %v", ids(got))
	}
	if got := SelectSeats(seats, "C", "A", routeABCD, 1); len(got) != 0 {
		t.Errorf("reversed segment must yield no seats, got %v", ids(got))
	}
	if got := SelectSeats(seats, "A", "C", routeABCD, 0); len(got) != 0 {
		t.Errorf("non-positive count must yield no seats, got %v", ids(got))
	}
	if got := SelectSeats(nil, "A", "C", routeABCD, 1); len(got) != 0 {
		t.Errorf("empty seat list must yield no seats, got %v", ids(got))
	}
}

func TestSelectSeatsNeverReturnsMoreThanCount(t *testing.T) {
	seats := []*Seat{
		mkSeat(1, 0, 1, "1"), mkSeat(2, 0, 2, "2"), mkSeat(3, 1, 1, "3"),
	}
	if got := SelectSeats(seats, "A", "D", routeABCD, 2); len(got) != 2 {
		t.Errorf("expected exactly 2 seats, got %d", len(got))
	}
}

func TestSelectSeatsPartialPool(t *testing.T) {
	seats := []*Seat{mkSeat(1, 0, 1, "1"), mkSeat(2, 0, 2, "2")}
	got := SelectSeats(seats, "A", "D", routeABCD, 5)
	if len(got) != 2 {
		t.Fatalf("expected the 2 available seats, got %d", len(got))
	}
}

func TestSelectSeatsGuideFallback(t *testing.T) {
	guide := mkSeat(1, 0, 2, "G1")
	guide.Type = SeatTypeGuide
	blocked := book(mkSeat(2, 1, 1, "1"), "A", "D")
	got := SelectSeats([]*Seat{guide, blocked}, "A", "C", routeABCD, 2)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("guide seat should be the last-resort result, got %v", ids(got))
	}
}

func TestSelectSeatsGuideNotUsedWhenRegularFree(t *testing.T) {
	guide := mkSeat(1, 0, 2, "G1")
	guide.Type = SeatTypeGuide
	regular := mkSeat(2, 1, 1, "1")
	got := SelectSeats([]*Seat{guide, regular}, "A", "C", routeABCD, 1)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("regular seat must beat the guide pool, got %v", ids(got))
	}
}

func TestGetBestAvailableSeatExcludes(t *testing.T) {
	s1 := mkSeat(1, 0, 1, "1")
	s2 := mkSeat(2, 0, 2, "2")
	got := GetBestAvailableSeat([]*Seat{s1, s2}, "A", "C", routeABCD, []uint64{1})
	if got == nil || got.ID != 2 {
		t.Fatalf("excluded seat must not be returned, got %+v", got)
	}
	if got := GetBestAvailableSeat([]*Seat{s1}, "A", "C", routeABCD, []uint64{1}); got != nil {
		t.Errorf("expected nil when everything is excluded, got %+v", got)
	}
}

func TestSelectSeatsNoOverlapProperty(t *testing.T) {
	seats := []*Seat{
		book(mkSeat(1, 0, 1, "1"), "A", "B"),
		book(mkSeat(2, 0, 2, "2"), "B", "C"),
		book(mkSeat(3, 1, 1, "3"), "A", "D"),
		mkSeat(4, 1, 2, "4"),
	}
	got := SelectSeats(seats, "B", "C", routeABCD, 4)
	seg, _ := ResolveSegment(routeABCD, "B", "C")
	for _, s := range got {
		if !seatFreeFor(s, seg, routeABCD) {
			t.Errorf("seat %d returned despite overlapping booking", s.ID)
		}
	}
	for _, s := range got {
		if s.ID == 2 || s.ID == 3 {
			t.Errorf("seat %d overlaps the requested segment", s.ID)
		}
	}
}
