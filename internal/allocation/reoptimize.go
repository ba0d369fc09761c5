package allocation

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the terminal outcome of one reoptimization pass.  The engine
// holds no state between invocations; callers keep only the last
// signature to recognise repeated proposals.
type Status string

const (
	StatusNoRoute           Status = "no-route"
	StatusNoCandidates      Status = "no-candidates"
	StatusMissingSegment    Status = "missing-segment"
	StatusSegmentNotOnRoute Status = "segment-not-on-route"
	StatusInvalidSegment    Status = "invalid-segment"
	StatusNoAvailability    Status = "no-availability"
	StatusAlreadyOptimal    Status = "already-optimal"
	StatusNeedsReopt        Status = "needs-reopt"
)

// ReoptCandidate is a machine-assigned, not-yet-persisted passenger
// occupying a seat.  Manual selections must never be passed here; they
// are not eligible for automatic reshuffling.
type ReoptCandidate struct {
	Seat    *Seat
	BoardAt string
	ExitAt  string
}

// Assignment maps one candidate's current seat to its proposed seat for
// a segment.  From and To are equal when the candidate keeps its seat.
type Assignment struct {
	From    *Seat
	To      *Seat
	BoardAt string
	ExitAt  string
}

// Move is the human-readable form of an assignment that actually changes
// seats.
type Move struct {
	FromLabel string `json:"from"`
	ToLabel   string `json:"to"`
	BoardAt   string `json:"board_at"`
	ExitAt    string `json:"exit_at"`
}

// ReoptimizeInput is the snapshot a reoptimization pass runs against.
type ReoptimizeInput struct {
	Stops      []string
	Seats      []*Seat
	Candidates []ReoptCandidate
}

// ReoptimizeResult carries the terminal status and, for needs-reopt, the
// assignment diff plus a deterministic signature that downstream callers
// use to detect "same proposal as before" without deep comparison.
type ReoptimizeResult struct {
	Status      Status
	Assignments []Assignment
	Moves       []Move
	Signature   string
}

type reoptGroup struct {
	seg     Segment
	boardAt string
	exitAt  string
	members []ReoptCandidate
}

// Reoptimize re-derives the best seat assignment for groups of
// auto-assigned passengers sharing a segment and proposes a minimal set
// of moves versus their current seats.
//
// Groups are processed in ascending (board, exit) order, larger groups
// first on ties, each consuming seats from the remaining pool before the
// next group runs.  This greedy pass is intentionally not globally
// optimal across groups — an earlier group can take seats a later group
// would have used better — in exchange for bounded latency.
func Reoptimize(in ReoptimizeInput) ReoptimizeResult {
	if len(in.Stops) < 2 {
		return ReoptimizeResult{Status: StatusNoRoute}
	}
	if len(in.Candidates) == 0 {
		return ReoptimizeResult{Status: StatusNoCandidates}
	}

	// Resolve every candidate segment up front; any bad segment aborts
	// the pass with a typed status rather than silently reshuffling.
	groups := map[Segment]*reoptGroup{}
	for _, cand := range in.Candidates {
		if strings.TrimSpace(cand.BoardAt) == "" || strings.TrimSpace(cand.ExitAt) == "" {
			return ReoptimizeResult{Status: StatusMissingSegment}
		}
		b := StopIndex(in.Stops, cand.BoardAt)
		e := StopIndex(in.Stops, cand.ExitAt)
		if b < 0 || e < 0 {
			return ReoptimizeResult{Status: StatusSegmentNotOnRoute}
		}
		if b >= e {
			return ReoptimizeResult{Status: StatusInvalidSegment}
		}
		seg := Segment{Board: b, Exit: e}
		g, ok := groups[seg]
		if !ok {
			g = &reoptGroup{seg: seg, boardAt: cand.BoardAt, exitAt: cand.ExitAt}
			groups[seg] = g
		}
		g.members = append(g.members, cand)
	}

	ordered := make([]*reoptGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.seg.Board != b.seg.Board {
			return a.seg.Board < b.seg.Board
		}
		if a.seg.Exit != b.seg.Exit {
			return a.seg.Exit < b.seg.Exit
		}
		return len(a.members) > len(b.members)
	})

	// Pool: every seat free for at least one group's interval, plus the
	// candidate seats themselves so a candidate can keep its own seat.
	pool := map[uint64]*Seat{}
	for _, g := range ordered {
		free, _ := FreeSeats(in.Seats, g.boardAt, g.exitAt, in.Stops)
		for _, s := range free {
			pool[s.ID] = s
		}
	}
	for _, cand := range in.Candidates {
		if cand.Seat != nil {
			pool[cand.Seat.ID] = cand.Seat
		}
	}

	var assignments []Assignment
	for _, g := range ordered {
		remaining := make([]*Seat, 0, len(pool))
		for _, s := range pool {
			remaining = append(remaining, s)
		}
		chosen := SelectSeats(remaining, g.boardAt, g.exitAt, in.Stops, len(g.members))
		if len(chosen) < len(g.members) {
			return ReoptimizeResult{Status: StatusNoAvailability}
		}
		for _, s := range chosen {
			delete(pool, s.ID)
		}
		// Pair held seats with chosen seats in stable physical order so
		// the diff stays minimal and deterministic.
		held := make([]*Seat, 0, len(g.members))
		for _, m := range g.members {
			held = append(held, m.Seat)
		}
		held = sortSeats(held)
		for i := range held {
			assignments = append(assignments, Assignment{
				From:    held[i],
				To:      chosen[i],
				BoardAt: g.boardAt,
				ExitAt:  g.exitAt,
			})
		}
	}

	changed := false
	for _, a := range assignments {
		if a.From == nil || a.From.ID != a.To.ID {
			changed = true
			break
		}
	}
	if !changed {
		return ReoptimizeResult{Status: StatusAlreadyOptimal}
	}

	var moves []Move
	var sigParts []string
	for _, a := range assignments {
		if a.From != nil && a.From.ID == a.To.ID {
			continue
		}
		fromID := uint64(0)
		fromLabel := ""
		if a.From != nil {
			fromID = a.From.ID
			fromLabel = a.From.Label
		}
		moves = append(moves, Move{
			FromLabel: fromLabel,
			ToLabel:   a.To.Label,
			BoardAt:   a.BoardAt,
			ExitAt:    a.ExitAt,
		})
		sigParts = append(sigParts, fmt.Sprintf("%d:%s>%s->%d", fromID, a.BoardAt, a.ExitAt, a.To.ID))
	}
	sort.Strings(sigParts)

	return ReoptimizeResult{
		Status:      StatusNeedsReopt,
		Assignments: assignments,
		Moves:       moves,
		Signature:   strings.Join(sigParts, "|"),
	}
}
