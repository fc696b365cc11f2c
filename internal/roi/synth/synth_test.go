package synth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStraight(t *testing.T) {
	traces := Straight(3, 7, 4)
	if len(traces) != 4 {
		t.Fatalf("got %d traces, want 4", len(traces))
	}
	pts := traces["trace-000"]
	if len(pts) != 8 {
		t.Fatalf("got %d points, want 8", len(pts))
	}
	if diff := cmp.Diff([]float64{7, 0, 0}, pts[7]); diff != "" {
		t.Errorf("last point mismatch (-want +got):\n%s", diff)
	}
	// Traces must not share backing arrays.
	pts[0][0] = 99
	if traces["trace-001"][0][0] != 0 {
		t.Error("traces alias each other")
	}
}

func TestDensitySloping(t *testing.T) {
	pool := [][]float64{{0, 0}, {3, 0}, {6, 0}, {6, 3}, {12, 3}}
	traces := DensitySloping(pool, 10)

	reach := make([]int, len(pool))
	for _, pts := range traces {
		if len(pts) < 2 {
			t.Fatalf("trace with %d points", len(pts))
		}
		for k := range pts {
			reach[k]++
		}
	}
	for k := 1; k < len(reach); k++ {
		if reach[k] > reach[k-1] {
			t.Errorf("point %d reached by %d traces, point %d by %d", k, reach[k], k-1, reach[k-1])
		}
	}
	if reach[1] != 10 {
		t.Errorf("first segment covered by %d traces, want 10", reach[1])
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42).Walks(5)
	b := NewGenerator(42).Walks(5)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different walks (-a +b):\n%s", diff)
	}

	g := NewGenerator(1)
	for id, pts := range g.Walks(3) {
		if len(pts) < g.Steps+1 {
			t.Errorf("%s has %d points, want at least %d", id, len(pts), g.Steps+1)
		}
		for _, p := range pts {
			for _, v := range p {
				if v < 0 || v > g.Extent {
					t.Fatalf("%s leaves the study area: %v", id, p)
				}
			}
		}
	}
}
