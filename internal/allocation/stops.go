package allocation

import "strings"

// Segment is a half-open interval [Board, Exit) over stop positions.
// A segment is valid only when 0 <= Board < Exit < len(stops).
type Segment struct {
	Board int
	Exit  int
}

// normalizeStop trims whitespace and case-folds a stop name so that
// "  Arusha " and "arusha" compare equal within one call.
func normalizeStop(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// StopIndex returns the position of the first stop whose normalized form
// equals the normalized input, or -1 when no stop matches.  Stop order is
// caller-provided and assumed to reflect physical route order.
//
// Duplicate stop names resolve to the first occurrence.  Routes that
// legitimately revisit a stop name (loop routes) cannot be expressed with
// name-based resolution; callers owning such routes must disambiguate
// upstream.
func StopIndex(stops []string, name string) int {
	want := normalizeStop(name)
	for i, s := range stops {
		if normalizeStop(s) == want {
			return i
		}
	}
	return -1
}

// ResolveSegment turns a (board, exit) stop-name pair into a Segment.
// It reports false when either name does not resolve, when the stops
// slice is too short to describe a route, or when board does not precede
// exit. An invalid segment yields no availability anywhere downstream.
func ResolveSegment(stops []string, board, exit string) (Segment, bool) {
	if len(stops) < 2 {
		return Segment{}, false
	}
	b := StopIndex(stops, board)
	e := StopIndex(stops, exit)
	if b < 0 || e < 0 || b >= e {
		return Segment{}, false
	}
	return Segment{Board: b, Exit: e}, true
}
