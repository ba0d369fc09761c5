package allocation

import "sort"

// minPoolSize is the floor of the candidate pool cap.  The search is
// exponential in the worst case, so the pool is capped at
// max(minPoolSize, poolFactor*count); this cap is the sole throttle
// bounding worst-case latency.
const (
	minPoolSize = 12
	poolFactor  = 4
)

func poolCap(count int) int {
	c := poolFactor * count
	if c < minPoolSize {
		c = minPoolSize
	}
	return c
}

// combo is a fully evaluated candidate tuple.  keys holds the sorted
// seat keys and acts as the final deterministic tie-breaker, making the
// comparison a total order.
type combo struct {
	members  []*candidate
	segSum   int
	rank     int
	arrScore float64
	frontSum int
	keys     []seatKey
}

func newCombo(members []*candidate) combo {
	c := combo{members: make([]*candidate, len(members))}
	copy(c.members, members)
	for _, m := range c.members {
		c.segSum += m.score
		c.frontSum += m.front
		c.keys = append(c.keys, m.key)
	}
	sort.Slice(c.keys, func(i, j int) bool { return c.keys[i].compare(c.keys[j]) < 0 })
	c.rank, c.arrScore = evalArrangement(c.members)
	return c
}

// better reports whether a beats b under the full comparison order:
// higher summed segment score, then lower arrangement rank, then higher
// arrangement score, then higher total frontness, then lexicographically
// smaller seat-key tuple.
func (a combo) better(b combo) bool {
	if a.segSum != b.segSum {
		return a.segSum > b.segSum
	}
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.arrScore != b.arrScore {
		return a.arrScore > b.arrScore
	}
	if a.frontSum != b.frontSum {
		return a.frontSum > b.frontSum
	}
	for i := range a.keys {
		if cmp := a.keys[i].compare(b.keys[i]); cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

// sortCandidates orders the pool by segment score (desc), frontness
// (desc), then seat key, so the pool cap keeps the most promising seats.
func sortCandidates(cands []*candidate) {
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.front != b.front {
			return a.front > b.front
		}
		return a.key.compare(b.key) < 0
	})
}

// searchBest enumerates every size-count subset of the capped candidate
// pool by backtracking and returns the best combination, or nil when the
// pool holds fewer than count seats.  Input must already be sorted by
// sortCandidates.
func searchBest(cands []*candidate, count int) []*candidate {
	if count <= 0 || len(cands) < count {
		return nil
	}
	pool := cands
	if limit := poolCap(count); len(pool) > limit {
		pool = pool[:limit]
	}

	var (
		best    combo
		found   bool
		current = make([]*candidate, 0, count)
	)
	var walk func(start int)
	walk = func(start int) {
		if len(current) == count {
			c := newCombo(current)
			if !found || c.better(best) {
				best = c
				found = true
			}
			return
		}
		// Not enough seats left to complete the tuple.
		remaining := count - len(current)
		for i := start; i <= len(pool)-remaining; i++ {
			current = append(current, pool[i])
			walk(i + 1)
			current = current[:len(current)-1]
		}
	}
	walk(0)
	if !found {
		return nil
	}
	return best.members
}
