package allocation

// SelectSeats assigns count passengers travelling the (board, exit)
// segment to the best free seats.  The pipeline: resolve the segment,
// filter free seats, score each by segment affinity, then search seat
// combinations for the tuple that maximises (segment score, arrangement
// rank, arrangement score, frontness).
//
// The result is ordered by physical seat order (row, column, label), not
// by score, so presentation stays stable and human-readable.  Invalid
// input degrades to an empty result, never a panic: the engine favours
// availability over strictness.  The result can be shorter than count
// only in the documented fallbacks — fewer free ordinary seats than
// requested, or the guide-seat pool standing in when no ordinary seat is
// free at all.
func SelectSeats(seats []*Seat, board, exit string, stops []string, count int) []*Seat {
	if count <= 0 {
		return nil
	}
	seg, ok := ResolveSegment(stops, board, exit)
	if !ok {
		return nil
	}
	regular, guide := FreeSeats(seats, board, exit, stops)
	if len(regular) == 0 {
		// Last resort: offer guide seats, as many as exist but never
		// more than requested.
		if len(guide) > count {
			guide = guide[:count]
		}
		return guide
	}

	cands := make([]*candidate, 0, len(regular))
	for _, s := range regular {
		cands = append(cands, &candidate{
			seat:  s,
			key:   keyOf(s),
			score: SegmentScore(s, seg, stops),
			front: frontScore(s),
		})
	}
	sortCandidates(cands)

	best := searchBest(cands, count)
	if best == nil {
		// Pool smaller than requested: hand back the top-scored seats
		// without arrangement guarantees.
		if len(cands) > count {
			cands = cands[:count]
		}
		best = cands
	}

	chosen := make([]*Seat, 0, len(best))
	for _, c := range best {
		chosen = append(chosen, c.seat)
	}
	return sortSeats(chosen)
}

// GetBestAvailableSeat picks the single best seat for the segment,
// skipping any seat whose ID appears in excludeIDs (e.g. a seat
// currently being vacated).  It returns nil when nothing is free.
func GetBestAvailableSeat(seats []*Seat, board, exit string, stops []string, excludeIDs []uint64) *Seat {
	pool := seats
	if len(excludeIDs) > 0 {
		skip := make(map[uint64]struct{}, len(excludeIDs))
		for _, id := range excludeIDs {
			skip[id] = struct{}{}
		}
		pool = make([]*Seat, 0, len(seats))
		for _, s := range seats {
			if s == nil {
				continue
			}
			if _, ok := skip[s.ID]; ok {
				continue
			}
			pool = append(pool, s)
		}
	}
	picked := SelectSeats(pool, board, exit, stops, 1)
	if len(picked) == 0 {
		return nil
	}
	return picked[0]
}
