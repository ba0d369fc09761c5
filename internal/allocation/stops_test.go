package allocation

import "testing"

func TestStopIndexNormalizes(t *testing.T) {
	stops := []string{"Ubungo", " Kimara ", "Mbezi"}
	if got := StopIndex(stops, "kimara"); got != 1 {
		t.Errorf("expected index 1 for 'kimara', got %d", got)
	}
	if got := StopIndex(stops, "  UBUNGO"); got != 0 {
		t.Errorf("expected index 0 for '  UBUNGO', got %d", got)
	}
	if got := StopIndex(stops, "Posta"); got != -1 {
		t.Errorf("expected -1 for unknown stop, got %d", got)
	}
}

func TestStopIndexDuplicateResolvesFirst(t *testing.T) {
	stops := []string{"A", "B", "A", "C"}
	if got := StopIndex(stops, "A"); got != 0 {
		t.Errorf("duplicate stop should resolve to first occurrence, got %d", got)
	}
}

func TestResolveSegment(t *testing.T) {
	stops := []string{"A", "B", "C", "D"}

	seg, ok := ResolveSegment(stops, "A", "C")
	if !ok || seg.Board != 0 || seg.Exit != 2 {
		t.Fatalf("expected [0,2), got %+v ok=%v", seg, ok)
	}

	cases := []struct {
		name        string
		stops       []string
		board, exit string
	}{
		{"reversed", stops, "C", "A"},
		{"equal", stops, "B", "B"},
		{"unknown board", stops, "X", "C"},
		{"unknown exit", stops, "A", "X"},
		{"short route", []string{"A"}, "A", "A"},
		{"nil route", nil, "A", "B"},
	}
	for _, tc := range cases {
		if _, ok := ResolveSegment(tc.stops, tc.board, tc.exit); ok {
			t.Errorf("%s: expected invalid segment", tc.name)
		}
	}
}
