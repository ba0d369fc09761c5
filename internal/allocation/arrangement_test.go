package allocation

import "testing"

func cand(s *Seat) *candidate {
	return &candidate{seat: s, key: keyOf(s), score: scoreEmptySeat, front: frontScore(s)}
}

func TestPairType(t *testing.T) {
	cases := []struct {
		name string
		a, b *Seat
		want int
	}{
		{"adjacent", mkSeat(1, 2, 1, "a"), mkSeat(2, 2, 2, "b"), pairAdjacent},
		{"across aisle", mkSeat(1, 2, 2, "a"), mkSeat(2, 2, 4, "b"), pairAcross},
		{"front back", mkSeat(1, 1, 3, "a"), mkSeat(2, 2, 3, "b"), pairFrontBack},
		{"diagonal", mkSeat(1, 1, 1, "a"), mkSeat(2, 2, 2, "b"), pairDiagonal},
		{"unplaced", &Seat{ID: 1, Row: RowUnknown, Col: ColUnknown}, mkSeat(2, 2, 2, "b"), pairDiagonal},
	}
	for _, tc := range cases {
		if got := PairType(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: PairType = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestEvalSingleFrontness(t *testing.T) {
	front := cand(mkSeat(1, 0, 1, "1"))
	back := cand(mkSeat(2, 10, 1, "41"))
	rf, sf := evalSingle(front)
	rb, sb := evalSingle(back)
	if rf != 0 || rb != 0 {
		t.Fatalf("single seats always rank 0, got %d and %d", rf, rb)
	}
	if sf <= sb {
		t.Errorf("front seat should outscore back seat: %v vs %v", sf, sb)
	}
}

func TestEvalPairRanks(t *testing.T) {
	adjacent, _ := evalPair(cand(mkSeat(1, 2, 1, "a")), cand(mkSeat(2, 2, 2, "b")))
	across, _ := evalPair(cand(mkSeat(1, 2, 1, "a")), cand(mkSeat(2, 2, 3, "b")))
	stacked, _ := evalPair(cand(mkSeat(1, 1, 1, "a")), cand(mkSeat(2, 2, 1, "b")))
	diagonal, _ := evalPair(cand(mkSeat(1, 1, 1, "a")), cand(mkSeat(2, 3, 4, "b")))
	if !(adjacent < across && across < stacked && stacked < diagonal) {
		t.Errorf("rank order broken: %d %d %d %d", adjacent, across, stacked, diagonal)
	}
}

func TestEvalTripleClassicLayout(t *testing.T) {
	// 2+1 layout: adjacent pair at columns 1,2 and a third seat across
	// the aisle at column 4, all in one row.
	group := []*candidate{
		cand(mkSeat(1, 3, 1, "a")),
		cand(mkSeat(2, 3, 2, "b")),
		cand(mkSeat(3, 3, 4, "c")),
	}
	rank, _ := evalTriple(group)
	if rank != 0 {
		t.Errorf("classic 2+1 trio should rank 0, got %d", rank)
	}
}

func TestEvalTriplePairPlusColumnCompanion(t *testing.T) {
	// Adjacent pair with the third seat directly behind one member.
	group := []*candidate{
		cand(mkSeat(1, 3, 1, "a")),
		cand(mkSeat(2, 3, 2, "b")),
		cand(mkSeat(3, 4, 2, "c")),
	}
	rank, _ := evalTriple(group)
	if rank != 1 {
		t.Errorf("pair plus same-column companion should rank 1, got %d", rank)
	}
}

func TestEvalTripleScattered(t *testing.T) {
	group := []*candidate{
		cand(mkSeat(1, 1, 1, "a")),
		cand(mkSeat(2, 4, 2, "b")),
		cand(mkSeat(3, 7, 4, "c")),
	}
	rank, _ := evalTriple(group)
	if rank != 2 {
		t.Errorf("scattered trio should rank 2, got %d", rank)
	}
}

func TestEvalQuadTwoAdjacentPairs(t *testing.T) {
	group := []*candidate{
		cand(mkSeat(1, 2, 1, "a")),
		cand(mkSeat(2, 2, 2, "b")),
		cand(mkSeat(3, 3, 1, "c")),
		cand(mkSeat(4, 3, 2, "d")),
	}
	rank, _ := evalQuad(group)
	if rank != 0 {
		t.Errorf("two side-by-side pairs should rank 0, got %d", rank)
	}
}

func TestEvalQuadOneAdjacentPair(t *testing.T) {
	group := []*candidate{
		cand(mkSeat(1, 2, 1, "a")),
		cand(mkSeat(2, 2, 2, "b")),
		cand(mkSeat(3, 3, 1, "c")),
		cand(mkSeat(4, 3, 4, "d")),
	}
	rank, _ := evalQuad(group)
	if rank != 1 {
		t.Errorf("one adjacent pair should rank 1, got %d", rank)
	}
}

func TestEvalLargeCountsAdjacency(t *testing.T) {
	// Five seats: two adjacent pairs plus one leftover.
	group := []*candidate{
		cand(mkSeat(1, 2, 1, "a")),
		cand(mkSeat(2, 2, 2, "b")),
		cand(mkSeat(3, 3, 1, "c")),
		cand(mkSeat(4, 3, 2, "d")),
		cand(mkSeat(5, 9, 4, "e")),
	}
	rank, score := evalLarge(group)
	if rank != -2 {
		t.Errorf("expected rank -2 for two adjacent pairs, got %d", rank)
	}
	want := 2*valueAdjacent - penaltyUnpaired
	if score != want {
		t.Errorf("expected score %v, got %v", want, score)
	}
}

func TestEvalLargePrefersMoreAdjacency(t *testing.T) {
	tight := []*candidate{
		cand(mkSeat(1, 2, 1, "a")), cand(mkSeat(2, 2, 2, "b")),
		cand(mkSeat(3, 3, 1, "c")), cand(mkSeat(4, 3, 2, "d")),
		cand(mkSeat(5, 4, 1, "e")), cand(mkSeat(6, 4, 2, "f")),
	}
	loose := []*candidate{
		cand(mkSeat(1, 2, 1, "a")), cand(mkSeat(2, 2, 4, "b")),
		cand(mkSeat(3, 3, 1, "c")), cand(mkSeat(4, 3, 4, "d")),
		cand(mkSeat(5, 4, 1, "e")), cand(mkSeat(6, 4, 4, "f")),
	}
	tightRank, _ := evalLarge(tight)
	looseRank, _ := evalLarge(loose)
	if tightRank >= looseRank {
		t.Errorf("three adjacent pairs (%d) should rank below zero adjacent pairs (%d)", tightRank, looseRank)
	}
}
