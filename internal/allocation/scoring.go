package allocation

// Segment-affinity weights.  An exact hand-off (one passenger leaves the
// seat exactly where the next boards) is worth four times a merely
// non-overlapping earlier or later booking: it means the seat serves
// back-to-back passengers with zero wasted capacity.
const (
	scoreEmptySeat = 5
	scoreHandOff   = 160
	scoreDisjoint  = 40
)

// SegmentScore rates how well a seat's existing bookings dovetail with
// the requested segment.  A seat with no valid bookings scores a neutral
// base; each booking that ends exactly at the requested board stop or
// starts exactly at the requested exit stop adds the hand-off bonus,
// while bookings lying entirely before or after the segment add the
// smaller disjoint bonus.  The two bonuses are mutually exclusive per
// booking side: a booking that hands off at the board stop collects the
// hand-off bonus only, never the disjoint one on top.  Overlapping
// bookings contribute nothing here; such seats are filtered out before
// scoring.
func SegmentScore(seat *Seat, seg Segment, stops []string) int {
	bks := resolveBookings(seat, stops)
	if len(bks) == 0 {
		return scoreEmptySeat
	}
	score := 0
	for _, bk := range bks {
		switch {
		case bk.exit == seg.Board:
			score += scoreHandOff
		case bk.exit < seg.Board:
			score += scoreDisjoint
		}
		switch {
		case bk.board == seg.Exit:
			score += scoreHandOff
		case bk.board > seg.Exit:
			score += scoreDisjoint
		}
	}
	return score
}

// frontRowCutoff is the row beyond which frontness no longer
// differentiates seats.
const frontRowCutoff = 20

// frontScore prefers seats nearer the front of the bus: it decreases
// linearly with the row and floors at zero for row >= frontRowCutoff.
// Seats with unknown rows get no frontness credit.
func frontScore(seat *Seat) int {
	if seat.Row < 0 {
		return 0
	}
	if seat.Row >= frontRowCutoff {
		return 0
	}
	return frontRowCutoff - seat.Row
}
