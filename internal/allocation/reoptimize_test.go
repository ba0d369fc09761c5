package allocation

import (
	"strings"
	"testing"
)

func TestReoptimizeStatusNoRoute(t *testing.T) {
	res := Reoptimize(ReoptimizeInput{Stops: []string{"A"}})
	if res.Status != StatusNoRoute {
		t.Errorf("expected no-route, got %s", res.Status)
	}
}

func TestReoptimizeStatusNoCandidates(t *testing.T) {
	res := Reoptimize(ReoptimizeInput{Stops: routeABCD})
	if res.Status != StatusNoCandidates {
		t.Errorf("expected no-candidates, got %s", res.Status)
	}
}

func TestReoptimizeSegmentStatuses(t *testing.T) {
	seat := mkSeat(1, 0, 1, "1")
	cases := []struct {
		name        string
		board, exit string
		want        Status
	}{
		{"missing", "", "C", StatusMissingSegment},
		{"off route", "A", "Nowhere", StatusSegmentNotOnRoute},
		{"inverted", "C", "A", StatusInvalidSegment},
	}
	for _, tc := range cases {
		res := Reoptimize(ReoptimizeInput{
			Stops:      routeABCD,
			Seats:      []*Seat{seat},
			Candidates: []ReoptCandidate{{Seat: seat, BoardAt: tc.board, ExitAt: tc.exit}},
		})
		if res.Status != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, res.Status)
		}
	}
}

func TestReoptimizeAlreadyOptimal(t *testing.T) {
	// A single candidate in the front-row seat; no better seat exists.
	s1 := mkSeat(1, 0, 1, "1")
	s2 := mkSeat(2, 5, 1, "21")
	res := Reoptimize(ReoptimizeInput{
		Stops:      routeABCD,
		Seats:      []*Seat{s1, s2},
		Candidates: []ReoptCandidate{{Seat: s1, BoardAt: "A", ExitAt: "C"}},
	})
	if res.Status != StatusAlreadyOptimal {
		t.Fatalf("expected already-optimal, got %s", res.Status)
	}
	if len(res.Moves) != 0 || res.Signature != "" {
		t.Errorf("already-optimal must carry no moves, got %+v", res)
	}
}

func TestReoptimizeProposesTrioMove(t *testing.T) {
	// Three auto-assigned passengers scattered with no adjacency while a
	// classic 2+1 trio sits free on one row.
	scatteredA := mkSeat(1, 5, 1, "17")
	scatteredB := mkSeat(2, 7, 2, "26")
	scatteredC := mkSeat(3, 9, 4, "36")
	trioA := mkSeat(4, 1, 1, "5")
	trioB := mkSeat(5, 1, 2, "6")
	trioC := mkSeat(6, 1, 4, "7")
	seats := []*Seat{scatteredA, scatteredB, scatteredC, trioA, trioB, trioC}

	res := Reoptimize(ReoptimizeInput{
		Stops: routeABCD,
		Seats: seats,
		Candidates: []ReoptCandidate{
			{Seat: scatteredA, BoardAt: "A", ExitAt: "C"},
			{Seat: scatteredB, BoardAt: "A", ExitAt: "C"},
			{Seat: scatteredC, BoardAt: "A", ExitAt: "C"},
		},
	})
	if res.Status != StatusNeedsReopt {
		t.Fatalf("expected needs-reopt, got %s", res.Status)
	}
	if len(res.Moves) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(res.Moves))
	}
	target := map[string]bool{}
	for _, a := range res.Assignments {
		target[a.To.Label] = true
	}
	for _, label := range []string{"5", "6", "7"} {
		if !target[label] {
			t.Errorf("trio seat %s missing from proposal, got %+v", label, res.Moves)
		}
	}
}

func TestReoptimizeNoAvailability(t *testing.T) {
	// Two candidates share one seat's segment but only one seat exists
	// once the second group's interval blocks everything else.
	s1 := mkSeat(1, 0, 1, "1")
	blocked := book(mkSeat(2, 0, 2, "2"), "A", "D")
	res := Reoptimize(ReoptimizeInput{
		Stops: routeABCD,
		Seats: []*Seat{s1, blocked},
		Candidates: []ReoptCandidate{
			{Seat: s1, BoardAt: "A", ExitAt: "C"},
			{Seat: s1, BoardAt: "A", ExitAt: "C"},
		},
	})
	if res.Status != StatusNoAvailability {
		t.Fatalf("expected no-availability, got %s", res.Status)
	}
	if len(res.Assignments) != 0 {
		t.Errorf("no-availability must not carry a partial proposal")
	}
}

func TestReoptimizeSeatlessCandidateInGroup(t *testing.T) {
	// A candidate without a current seat (e.g. a booking whose seat row
	// vanished from the snapshot) sharing its segment with a seated one.
	// The pass must degrade to a proposal, never dereference the nil.
	seated := mkSeat(1, 9, 4, "36")
	front1 := mkSeat(2, 0, 1, "1")
	front2 := mkSeat(3, 0, 2, "2")
	res := Reoptimize(ReoptimizeInput{
		Stops: routeABCD,
		Seats: []*Seat{seated, front1, front2},
		Candidates: []ReoptCandidate{
			{Seat: seated, BoardAt: "A", ExitAt: "C"},
			{Seat: nil, BoardAt: "A", ExitAt: "C"},
		},
	})
	if res.Status != StatusNeedsReopt {
		t.Fatalf("expected needs-reopt, got %s", res.Status)
	}
	if len(res.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(res.Assignments))
	}
	// Seatless candidates pair after every seated one and land on a real
	// target with an empty from label.
	placed := false
	for _, a := range res.Assignments {
		if a.To == nil {
			t.Fatalf("assignment target must never be nil: %+v", a)
		}
		if a.From == nil {
			placed = true
		}
	}
	if !placed {
		t.Errorf("seatless candidate missing from proposal: %+v", res.Assignments)
	}
	for _, m := range res.Moves {
		if m.ToLabel == "" {
			t.Errorf("move target must carry a label: %+v", m)
		}
	}
}

func TestReoptimizeSignatureStable(t *testing.T) {
	build := func() ReoptimizeResult {
		held := mkSeat(1, 9, 4, "36")
		better := mkSeat(2, 0, 1, "1")
		return Reoptimize(ReoptimizeInput{
			Stops:      routeABCD,
			Seats:      []*Seat{held, better},
			Candidates: []ReoptCandidate{{Seat: held, BoardAt: "A", ExitAt: "B"}},
		})
	}
	first := build()
	second := build()
	if first.Status != StatusNeedsReopt {
		t.Fatalf("expected needs-reopt, got %s", first.Status)
	}
	if first.Signature == "" || first.Signature != second.Signature {
		t.Errorf("signature must be deterministic: %q vs %q", first.Signature, second.Signature)
	}
	if !strings.Contains(first.Signature, "1:A>B->2") {
		t.Errorf("signature format changed: %q", first.Signature)
	}
}

func TestReoptimizeGroupsProcessedInSegmentOrder(t *testing.T) {
	// Two groups with different segments; both can be satisfied because
	// their intervals never overlap on the same seat after the first
	// group consumes its choice.
	early := mkSeat(1, 4, 1, "13")
	late := mkSeat(2, 6, 1, "25")
	front1 := mkSeat(3, 0, 1, "1")
	front2 := mkSeat(4, 0, 2, "2")
	res := Reoptimize(ReoptimizeInput{
		Stops: routeABCD,
		Seats: []*Seat{early, late, front1, front2},
		Candidates: []ReoptCandidate{
			{Seat: late, BoardAt: "B", ExitAt: "D"},
			{Seat: early, BoardAt: "A", ExitAt: "B"},
		},
	})
	if res.Status != StatusNeedsReopt {
		t.Fatalf("expected needs-reopt, got %s", res.Status)
	}
	// The A->B group runs first and takes the best front seat; the B->D
	// group gets the next one. Both passengers move forward.
	if len(res.Moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(res.Moves))
	}
}
