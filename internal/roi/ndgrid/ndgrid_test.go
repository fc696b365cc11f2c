package ndgrid

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustGrid(t *testing.T, cells []int, bounds []Range) Grid {
	t.Helper()
	g, err := New(cells, bounds)
	if err != nil {
		t.Fatalf("New(%v, %v) failed: %v", cells, bounds, err)
	}
	return g
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		cells  []int
		bounds []Range
		want   error
	}{
		{"no dimensions", nil, nil, ErrNoDimensions},
		{"length mismatch", []int{2, 2}, []Range{{0, 1}}, ErrDimensionMismatch},
		{"zero cells", []int{0}, []Range{{0, 1}}, ErrCellCount},
		{"negative cells", []int{3, -1}, []Range{{0, 1}, {0, 1}}, ErrCellCount},
		{"inverted range", []int{2}, []Range{{5, 1}}, ErrInvalidRange},
		{"nan bound", []int{2}, []Range{{math.NaN(), 1}}, ErrNonFinite},
		{"infinite bound", []int{2}, []Range{{0, math.Inf(1)}}, ErrNonFinite},
		{"cell count overflow", []int{1 << 32, 1 << 32}, []Range{{0, 1}, {0, 1}}, ErrCellCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cells, tt.bounds)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewNormalisesDegenerateDimension(t *testing.T) {
	bounds := []Range{{0, 12}, {0, 3}, {4, 4}}
	g := mustGrid(t, []int{13, 4, 1}, bounds)

	got := g.Bounds()
	if got[2] != (Range{Min: 4, Max: 5}) {
		t.Errorf("degenerate dimension = %+v, want [4, 5]", got[2])
	}
	if bounds[2].Max != 4 {
		t.Errorf("caller's bounds were mutated: %+v", bounds[2])
	}
	if g.PartitionSize(0) != 1 || g.PartitionSize(1) != 1 {
		t.Errorf("partition sizes = %g, %g, want 1, 1", g.PartitionSize(0), g.PartitionSize(1))
	}
	if g.NumCells() != 52 {
		t.Errorf("NumCells() = %d, want 52", g.NumCells())
	}
	if g.String() != "Grid(13x4x1)" {
		t.Errorf("String() = %q", g.String())
	}
}

func TestFlattenInflateBijection(t *testing.T) {
	g := mustGrid(t, []int{3, 4, 5}, []Range{{0, 1}, {0, 1}, {0, 1}})

	for id := CellID(0); int(id) < g.NumCells(); id++ {
		idx := g.Inflate(id)
		if !g.Contains(idx) {
			t.Fatalf("Inflate(%d) = %v is outside the grid", id, idx)
		}
		if back := g.Flatten(idx); back != id {
			t.Fatalf("Flatten(Inflate(%d)) = %d", id, back)
		}
	}

	for x := 0; x < 3; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 5; z++ {
				idx := []int{x, y, z}
				if got := g.Inflate(g.Flatten(idx)); !slices.Equal(got, idx) {
					t.Fatalf("Inflate(Flatten(%v)) = %v", idx, got)
				}
			}
		}
	}

	// Row-major: the last dimension varies fastest.
	if got := g.Flatten([]int{0, 0, 1}); got != 1 {
		t.Errorf("Flatten({0,0,1}) = %d, want 1", got)
	}
	if got := g.Flatten([]int{1, 0, 0}); got != 20 {
		t.Errorf("Flatten({1,0,0}) = %d, want 20", got)
	}
}

func TestIndicesOf(t *testing.T) {
	g := mustGrid(t, []int{10, 10}, []Range{{0, 10}, {0, 10}})

	tests := []struct {
		point []float64
		want  []int
	}{
		{[]float64{0, 0}, []int{0, 0}},
		{[]float64{10, 10}, []int{9, 9}},
		{[]float64{1.09, 1.1}, []int{0, 1}},
		{[]float64{-0.5, 5}, []int{-1, 4}},
	}
	for _, tt := range tests {
		got, err := g.IndicesOf(tt.point)
		if err != nil {
			t.Fatalf("IndicesOf(%v) error: %v", tt.point, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("IndicesOf(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}

	if _, err := g.IndicesOf([]float64{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("IndicesOf with 3 coordinates error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := g.CellOf([]float64{-0.5, 5}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("CellOf outside grid error = %v, want ErrOutOfBounds", err)
	}
}

func TestCellBoundsAndCorners(t *testing.T) {
	g := mustGrid(t, []int{2, 2}, []Range{{0, 3}, {10, 13}})

	bounds := g.CellBounds([]int{1, 0})
	want := []Range{{2, 4}, {10, 12}}
	if diff := cmp.Diff(want, bounds); diff != "" {
		t.Errorf("CellBounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{3, 11}, g.Centre([]int{1, 0})); diff != "" {
		t.Errorf("Centre mismatch (-want +got):\n%s", diff)
	}

	corners := g.Corners([]int{1, 0})
	wantCorners := [][]float64{{2, 10}, {4, 10}, {2, 12}, {4, 12}}
	if diff := cmp.Diff(wantCorners, corners); diff != "" {
		t.Errorf("Corners mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighbourhoodAroundCentre(t *testing.T) {
	g := mustGrid(t, []int{3, 3, 3}, []Range{{-10, 10}, {-10, 10}, {-10, 10}})

	got := g.NeighbourhoodAround([]int{1, 1, 1}, 1)
	want := make([]CellID, 27)
	for i := range want {
		want[i] = CellID(i)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NeighbourhoodAround mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighbourhoodAroundCorner(t *testing.T) {
	g := mustGrid(t, []int{3, 3, 3}, []Range{{0, 2}, {0, 2}, {0, 2}})

	var want []CellID
	for _, idx := range [][]int{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{1, 1, 0}, {1, 1, 1}, {1, 0, 1}, {0, 1, 1},
	} {
		want = append(want, g.Flatten(idx))
	}
	slices.Sort(want)

	got := g.NeighbourhoodAround([]int{0, 0, 0}, 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NeighbourhoodAround corner mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighbourhoodAroundEdges(t *testing.T) {
	g := mustGrid(t, []int{5, 4}, []Range{{0, 4}, {0, 3}})

	if got := g.NeighbourhoodAround([]int{2, 2}, 0); !slices.Equal(got, []CellID{g.Flatten([]int{2, 2})}) {
		t.Errorf("radius 0 = %v, want only the centre", got)
	}

	// Window clamps at the far edge instead of running past the last cell.
	got := g.NeighbourhoodAround([]int{4, 3}, 1)
	want := []CellID{
		g.Flatten([]int{3, 2}), g.Flatten([]int{3, 3}),
		g.Flatten([]int{4, 2}), g.Flatten([]int{4, 3}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("far-corner neighbourhood mismatch (-want +got):\n%s", diff)
	}

	if got := g.NeighbourhoodAround([]int{20, 20}, 1); got != nil {
		t.Errorf("neighbourhood fully outside grid = %v, want nil", got)
	}
}

func TestWindow(t *testing.T) {
	g := mustGrid(t, []int{4, 4}, []Range{{0, 3}, {0, 3}})

	got := g.Window([]int{1, 1}, []int{2, 3})
	want := []CellID{5, 6, 7, 9, 10, 11}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Window mismatch (-want +got):\n%s", diff)
	}

	all := g.Window([]int{-3, -3}, []int{9, 9})
	if len(all) != 16 || all[0] != 0 || all[15] != 15 {
		t.Errorf("clamped whole-grid window = %v", all)
	}
}

func TestCellsBetweenStraightLine(t *testing.T) {
	g := mustGrid(t, []int{10, 10}, []Range{{0, 10}, {0, 10}})

	got, err := g.CellsBetween([]float64{0, 0}, []float64{10, 0}, 0)
	if err != nil {
		t.Fatalf("CellsBetween error: %v", err)
	}
	var want []CellID
	for x := 0; x < 10; x++ {
		want = append(want, g.Flatten([]int{x, 0}))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CellsBetween mismatch (-want +got):\n%s", diff)
	}
}

func TestCellsBetweenWithRadius(t *testing.T) {
	g := mustGrid(t, []int{5, 5}, []Range{{0, 4}, {0, 4}})

	got, err := g.CellsBetween([]float64{0, 2}, []float64{4, 2}, 1)
	if err != nil {
		t.Fatalf("CellsBetween error: %v", err)
	}
	if len(got) != 15 {
		t.Fatalf("CellsBetween radius 1 returned %d cells, want 15: %v", len(got), got)
	}
	for _, id := range got {
		y := g.Inflate(id)[1]
		if y < 1 || y > 3 {
			t.Errorf("cell %v lies outside the thickened band", g.Inflate(id))
		}
	}

	if _, err := g.CellsBetween([]float64{0}, []float64{4, 2}, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("mis-sized point error = %v, want ErrDimensionMismatch", err)
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want [][]int
	}{
		{"same cell", []int{2, 2}, []int{2, 2}, [][]int{{2, 2}}},
		{"axis aligned", []int{0, 0}, []int{3, 0}, [][]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"shallow diagonal", []int{0, 0}, []int{3, 1}, [][]int{{0, 0}, {1, 0}, {2, 1}, {3, 1}}},
		{"reverse", []int{3, 1}, []int{0, 0}, [][]int{{3, 1}, {2, 1}, {1, 0}, {0, 0}}},
		{"three dimensions", []int{0, 0, 0}, []int{2, 2, 2}, [][]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Interpolate(tt.a, tt.b)); diff != "" {
				t.Errorf("Interpolate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCellsForSize(t *testing.T) {
	got := CellsForSize([]Range{{0, 1000}, {0, 250}, {5, 5}}, 100)
	if diff := cmp.Diff([]int{10, 2, 1}, got); diff != "" {
		t.Errorf("CellsForSize mismatch (-want +got):\n%s", diff)
	}
	if got := CellsForSize([]Range{{0, 10}}, 0); got[0] != 1 {
		t.Errorf("CellsForSize with zero size = %v, want [1]", got)
	}
}

func TestCellsForSizeTinyCell(t *testing.T) {
	got := CellsForSize([]Range{{0, 1e300}}, 1e-300)
	if got[0] != math.MaxInt32 {
		t.Errorf("CellsForSize clamp = %v, want [%d]", got, math.MaxInt32)
	}
}

func TestIndicesOfRejectsNonFinite(t *testing.T) {
	g := mustGrid(t, []int{10, 10}, []Range{{0, 9}, {0, 9}})
	for _, p := range [][]float64{{math.NaN(), 5}, {5, math.Inf(1)}, {math.Inf(-1), 0}} {
		if _, err := g.IndicesOf(p); !errors.Is(err, ErrNonFinite) {
			t.Errorf("IndicesOf(%v) error = %v, want ErrNonFinite", p, err)
		}
		if _, err := g.CellsBetween([]float64{0, 0}, p, 0); !errors.Is(err, ErrNonFinite) {
			t.Errorf("CellsBetween(_, %v) error = %v, want ErrNonFinite", p, err)
		}
	}
}
