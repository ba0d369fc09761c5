package allocation

import "sort"

// Pair classification tiers.  Lower is better.
const (
	pairAdjacent  = 0 // same row, neighbouring columns
	pairAcross    = 1 // same row, separated by the aisle
	pairFrontBack = 2 // same column, different rows
	pairDiagonal  = 3 // anything else (undesirable)
)

// Arrangement score weights per pair tier, plus the penalty applied to
// group members that cannot be matched with anyone at all.
const (
	valueAdjacent   = 100.0
	valueAcross     = 60.0
	valueFrontBack  = 40.0
	bonusAdjacent   = 25.0
	penaltyUnpaired = 50.0
)

func placed(s *Seat) bool {
	return s.Row >= 0 && s.Col > 0
}

// PairType classifies the physical relationship between two seats.
// Columns that are not consecutive are considered separated by an aisle;
// seats with missing row/column information always classify as diagonal.
func PairType(a, b *Seat) int {
	if a == nil || b == nil || !placed(a) || !placed(b) {
		return pairDiagonal
	}
	if a.Row == b.Row {
		if a.Col-b.Col == 1 || b.Col-a.Col == 1 {
			return pairAdjacent
		}
		return pairAcross
	}
	if a.Col == b.Col {
		return pairFrontBack
	}
	return pairDiagonal
}

func manhattan(a, b *Seat) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// pairValue converts a pair tier into an arrangement score contribution.
// Diagonal pairs score by inverse distance so that, among bad options,
// closer seats still win.
func pairValue(t int, a, b *Seat) float64 {
	switch t {
	case pairAdjacent:
		return valueAdjacent
	case pairAcross:
		return valueAcross
	case pairFrontBack:
		return valueFrontBack
	default:
		if !placed(a) || !placed(b) {
			return 0
		}
		return 10.0 / float64(1+manhattan(a, b))
	}
}

// candidate is the ephemeral per-selection view of a free seat: the seat
// itself, its ordering key, its segment-affinity score and its frontness.
type candidate struct {
	seat  *Seat
	key   seatKey
	score int
	front int
}

// rowOrCutoff substitutes the frontness cutoff for unknown rows so that
// row-sum heuristics treat unplaced seats as far back.
func rowOrCutoff(s *Seat) int {
	if s.Row < 0 {
		return frontRowCutoff
	}
	return s.Row
}

// evalArrangement scores how well a tuple of candidate seats satisfies
// physical seating-together conventions.  The heuristics are specialised
// per group size; each size variant is a pure function so the rules stay
// testable in isolation.  Lower ranks are better; among equal ranks a
// higher score is better.
func evalArrangement(group []*candidate) (rank int, score float64) {
	switch len(group) {
	case 1:
		return evalSingle(group[0])
	case 2:
		return evalPair(group[0], group[1])
	case 3:
		return evalTriple(group)
	case 4:
		return evalQuad(group)
	default:
		return evalLarge(group)
	}
}

// evalSingle: a lone passenger has no togetherness concerns, so the rank
// is always best and frontness is the only differentiator.
func evalSingle(c *candidate) (int, float64) {
	return pairAdjacent, float64(c.front)
}

// evalPair: the pair tier is the rank directly.
func evalPair(a, b *candidate) (int, float64) {
	t := PairType(a.seat, b.seat)
	return t, pairValue(t, a.seat, b.seat)
}

// evalTriple handles the classic 2+1 bus layout: the best arrangement is
// an adjacent pair with the third seat across the aisle in the same row.
// Failing that, an adjacent-or-across pair with the third seat directly
// in front of or behind a pair member still keeps the group in earshot.
// Otherwise the group is scattered and the heuristic just prefers the
// front of the bus.
func evalTriple(group []*candidate) (int, float64) {
	rows := 0
	for _, c := range group {
		rows += rowOrCutoff(c.seat)
	}

	sameRow := placed(group[0].seat) && placed(group[1].seat) && placed(group[2].seat) &&
		group[0].seat.Row == group[1].seat.Row && group[1].seat.Row == group[2].seat.Row
	if sameRow {
		cols := []int{group[0].seat.Col, group[1].seat.Col, group[2].seat.Col}
		sort.Ints(cols)
		gapLo := cols[1] - cols[0]
		gapHi := cols[2] - cols[1]
		if (gapLo == 1 && gapHi > 1) || (gapHi == 1 && gapLo > 1) {
			return 0, 150 - float64(rows)
		}
	}

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			t := PairType(group[i].seat, group[j].seat)
			if t > pairAcross {
				continue
			}
			k := 3 - i - j
			third := group[k].seat
			if !placed(third) {
				continue
			}
			if third.Row != group[i].seat.Row &&
				(third.Col == group[i].seat.Col || third.Col == group[j].seat.Col) {
				return 1, 100 - float64(rows)
			}
		}
	}

	return 2, -float64(rows)
}

// quadPairings lists the three ways to split four seats into two pairs.
var quadPairings = [3][4]int{
	{0, 1, 2, 3},
	{0, 2, 1, 3},
	{0, 3, 1, 2},
}

// evalQuad tries every way of splitting the four seats into two pairs.
// A pairing is invalid when either pair is diagonal.  Two side-by-side
// pairs is the ideal; one adjacent pair still ranks above none.
func evalQuad(group []*candidate) (int, float64) {
	bestRank := pairDiagonal
	bestScore := 0.0
	found := false
	for _, p := range quadPairings {
		a1, a2 := group[p[0]].seat, group[p[1]].seat
		b1, b2 := group[p[2]].seat, group[p[3]].seat
		tA := PairType(a1, a2)
		tB := PairType(b1, b2)
		if tA == pairDiagonal || tB == pairDiagonal {
			continue
		}
		adj := 0
		if tA == pairAdjacent {
			adj++
		}
		if tB == pairAdjacent {
			adj++
		}
		rank := 2
		if adj == 2 {
			rank = 0
		} else if adj == 1 {
			rank = 1
		}
		score := pairValue(tA, a1, a2) + pairValue(tB, b1, b2) + bonusAdjacent*float64(adj)
		if !found || rank < bestRank || (rank == bestRank && score > bestScore) {
			found = true
			bestRank = rank
			bestScore = score
		}
	}
	if found {
		return bestRank, bestScore
	}
	// No splittable pairing: keep the group compact as a last resort.
	total := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if placed(group[i].seat) && placed(group[j].seat) {
				total += manhattan(group[i].seat, group[j].seat)
			} else {
				total += 2 * frontRowCutoff
			}
		}
	}
	return pairDiagonal, -float64(total)
}

type matchedPair struct {
	i, j     int
	tier     int
	combined int
}

// evalLarge handles groups of five and more with greedy matching:
// consume adjacent pairs first (highest combined segment score first),
// then across-aisle pairs, then front/back pairs, always from the seats
// not yet matched.  The rank is the negative count of adjacent pairs so
// that more adjacency sorts earlier; every member left unmatched costs a
// penalty.
func evalLarge(group []*candidate) (int, float64) {
	var pairs []matchedPair
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			t := PairType(group[i].seat, group[j].seat)
			if t == pairDiagonal {
				continue
			}
			pairs = append(pairs, matchedPair{
				i: i, j: j, tier: t,
				combined: group[i].score + group[j].score,
			})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		pa, pb := pairs[a], pairs[b]
		if pa.tier != pb.tier {
			return pa.tier < pb.tier
		}
		if pa.combined != pb.combined {
			return pa.combined > pb.combined
		}
		if pa.i != pb.i {
			return pa.i < pb.i
		}
		return pa.j < pb.j
	})

	used := make([]bool, len(group))
	adjCount := 0
	score := 0.0
	for _, p := range pairs {
		if used[p.i] || used[p.j] {
			continue
		}
		used[p.i], used[p.j] = true, true
		switch p.tier {
		case pairAdjacent:
			adjCount++
			score += valueAdjacent
		case pairAcross:
			score += valueAcross
		case pairFrontBack:
			score += valueFrontBack
		}
	}
	for _, u := range used {
		if !u {
			score -= penaltyUnpaired
		}
	}
	return -adjCount, score
}
