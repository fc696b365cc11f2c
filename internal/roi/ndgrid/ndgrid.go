package ndgrid

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CellID is the flattened (row-major) identifier of a grid cell.
type CellID int

// Range is the closed [Min, Max] extent of one dimension.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width returns Max - Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Grid partitions an axis-aligned region into cells. It is immutable once
// built and safe to copy; all accessors return fresh slices.
type Grid struct {
	ranges    []Range
	cells     []int
	partition []float64 // size of one cell in each dimension
	strides   []int     // flattening multipliers, last dimension has stride 1
	total     int
}

// New builds a grid with cellsPerDimension[n] cells along bounds[n].
// A degenerate dimension (Min == Max) is widened to [Min, Min+1].
func New(cellsPerDimension []int, bounds []Range) (Grid, error) {
	if len(cellsPerDimension) == 0 || len(bounds) == 0 {
		return Grid{}, ErrNoDimensions
	}
	if len(cellsPerDimension) != len(bounds) {
		return Grid{}, fmt.Errorf("%w: %d cell counts for %d ranges",
			ErrDimensionMismatch, len(cellsPerDimension), len(bounds))
	}

	n := len(bounds)
	g := Grid{
		ranges:    make([]Range, n),
		cells:     make([]int, n),
		partition: make([]float64, n),
		strides:   make([]int, n),
		total:     1,
	}
	for i := 0; i < n; i++ {
		if cellsPerDimension[i] <= 0 {
			return Grid{}, fmt.Errorf("%w: dimension %d has %d cells", ErrCellCount, i, cellsPerDimension[i])
		}
		r := bounds[i]
		if !finite(r.Min) || !finite(r.Max) {
			return Grid{}, fmt.Errorf("%w: dimension %d is [%g, %g]", ErrNonFinite, i, r.Min, r.Max)
		}
		if r.Max < r.Min {
			return Grid{}, fmt.Errorf("%w: dimension %d is [%g, %g]", ErrInvalidRange, i, r.Min, r.Max)
		}
		if r.Max == r.Min {
			r.Max = r.Min + 1
		}
		g.ranges[i] = r
		g.cells[i] = cellsPerDimension[i]
		// +1 so the maximum coordinate still lands inside the last cell.
		g.partition[i] = (r.Max - r.Min + 1) / float64(cellsPerDimension[i])
		if g.total > math.MaxInt/cellsPerDimension[i] {
			return Grid{}, fmt.Errorf("%w: %v cells overflow int", ErrCellCount, cellsPerDimension)
		}
		g.total *= cellsPerDimension[i]
	}
	stride := 1
	for i := n - 1; i >= 0; i-- {
		g.strides[i] = stride
		stride *= g.cells[i]
	}
	return g, nil
}

// Dims returns the number of dimensions.
func (g Grid) Dims() int { return len(g.cells) }

// NumCells returns the total number of cells (the exclusive upper bound of CellID).
func (g Grid) NumCells() int { return g.total }

// CellCounts returns the number of cells in each dimension.
func (g Grid) CellCounts() []int { return slices.Clone(g.cells) }

// Bounds returns the (normalised) range of each dimension.
func (g Grid) Bounds() []Range { return slices.Clone(g.ranges) }

// PartitionSize returns the width of one cell along dimension n.
func (g Grid) PartitionSize(n int) float64 { return g.partition[n] }

// IndicesOf returns the per-dimension cell indices the point falls into.
// The result may lie outside the grid for points outside Bounds.
func (g Grid) IndicesOf(point []float64) ([]int, error) {
	if len(point) != len(g.cells) {
		return nil, fmt.Errorf("%w: point has %d coordinates, grid has %d dimensions",
			ErrDimensionMismatch, len(point), len(g.cells))
	}
	indices := make([]int, len(point))
	for n, v := range point {
		if !finite(v) {
			return nil, fmt.Errorf("%w: coordinate %d is %g", ErrNonFinite, n, v)
		}
		indices[n] = int(math.Floor((v - g.ranges[n].Min) / g.partition[n]))
	}
	return indices, nil
}

// CellOf returns the flattened id of the cell containing point.
func (g Grid) CellOf(point []float64) (CellID, error) {
	indices, err := g.IndicesOf(point)
	if err != nil {
		return 0, err
	}
	if !g.Contains(indices) {
		return 0, fmt.Errorf("%w: point %v maps to indices %v", ErrOutOfBounds, point, indices)
	}
	return g.Flatten(indices), nil
}

// Contains reports whether every index lies within [0, cellCount).
func (g Grid) Contains(indices []int) bool {
	if len(indices) != len(g.cells) {
		return false
	}
	for n, i := range indices {
		if i < 0 || i >= g.cells[n] {
			return false
		}
	}
	return true
}

// Valid reports whether id addresses a cell of this grid.
func (g Grid) Valid(id CellID) bool { return id >= 0 && int(id) < g.total }

// Flatten converts in-bounds indices to a cell id. Indices must satisfy Contains.
func (g Grid) Flatten(indices []int) CellID {
	id := 0
	for n, i := range indices {
		id += i * g.strides[n]
	}
	return CellID(id)
}

// Inflate converts a valid cell id back to per-dimension indices.
func (g Grid) Inflate(id CellID) []int {
	indices := make([]int, len(g.cells))
	rem := int(id)
	for n, stride := range g.strides {
		indices[n] = rem / stride
		rem %= stride
	}
	return indices
}

// CellBounds returns the coordinate range covered by the cell at indices.
func (g Grid) CellBounds(indices []int) []Range {
	out := make([]Range, len(indices))
	for n, i := range indices {
		lo := g.ranges[n].Min + g.partition[n]*float64(i)
		out[n] = Range{Min: lo, Max: lo + g.partition[n]}
	}
	return out
}

// Centre returns the midpoint of the cell at indices.
func (g Grid) Centre(indices []int) []float64 {
	out := make([]float64, len(indices))
	for n, r := range g.CellBounds(indices) {
		out[n] = (r.Min + r.Max) / 2
	}
	return out
}

// Corners returns the 2^n corner coordinates of the cell at indices. Bit n of
// the corner's position selects Max (1) or Min (0) along dimension n.
func (g Grid) Corners(indices []int) [][]float64 {
	bounds := g.CellBounds(indices)
	n := len(bounds)
	corners := make([][]float64, 1<<n)
	for mask := range corners {
		c := make([]float64, n)
		for d := 0; d < n; d++ {
			if mask&(1<<d) != 0 {
				c[d] = bounds[d].Max
			} else {
				c[d] = bounds[d].Min
			}
		}
		corners[mask] = c
	}
	return corners
}

// Window returns, in ascending order, every cell id whose indices lie in the
// inclusive box [lo, hi]. The box is clamped to the grid; an empty box yields nil.
func (g Grid) Window(lo, hi []int) []CellID {
	n := len(g.cells)
	if len(lo) != n || len(hi) != n {
		return nil
	}
	minIdx := make([]int, n)
	shape := make([]int, n)
	count := 1
	whole := true
	for d := 0; d < n; d++ {
		a := max(lo[d], 0)
		b := min(hi[d], g.cells[d]-1)
		if b < a {
			return nil
		}
		minIdx[d] = a
		shape[d] = b - a + 1
		count *= shape[d]
		if shape[d] != g.cells[d] {
			whole = false
		}
	}

	ids := make([]CellID, count)
	if whole {
		for i := range ids {
			ids[i] = CellID(i)
		}
		return ids
	}

	// Enumerate the window in its own shape, then translate each local
	// tuple by the window origin and re-flatten against the grid.
	local := make([]int, n)
	for i := range ids {
		rem := i
		for d := n - 1; d >= 0; d-- {
			local[d] = rem%shape[d] + minIdx[d]
			rem /= shape[d]
		}
		ids[i] = g.Flatten(local)
	}
	return ids
}

// NeighbourhoodAround returns the cells within Chebyshev distance radius of
// centre, clamped to the grid and including centre itself.
func (g Grid) NeighbourhoodAround(centre []int, radius int) []CellID {
	radius = max(radius, 0)
	lo := make([]int, len(centre))
	hi := make([]int, len(centre))
	for d, c := range centre {
		lo[d] = c - radius
		hi[d] = c + radius
	}
	return g.Window(lo, hi)
}

// CellsBetween rasterises the straight line between two points and returns the
// cells it crosses, thickened by radius cells on every side when radius > 0.
// The result is sorted and duplicate free.
func (g Grid) CellsBetween(a, b []float64, radius int) ([]CellID, error) {
	from, err := g.IndicesOf(a)
	if err != nil {
		return nil, err
	}
	to, err := g.IndicesOf(b)
	if err != nil {
		return nil, err
	}

	var ids []CellID
	for _, step := range Interpolate(from, to) {
		if radius > 0 {
			ids = append(ids, g.NeighbourhoodAround(step, radius)...)
			continue
		}
		if g.Contains(step) {
			ids = append(ids, g.Flatten(step))
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Interpolate walks the index-space line from a to b (inclusive) in
// max(|b[n]-a[n]|) steps, rounding each coordinate to the nearest index.
func Interpolate(a, b []int) [][]int {
	n := min(len(a), len(b))
	steps := 0
	for d := 0; d < n; d++ {
		steps = max(steps, abs(b[d]-a[d]))
	}
	if steps == 0 {
		return [][]int{slices.Clone(a[:n])}
	}

	path := make([][]int, steps+1)
	for t := 0; t <= steps; t++ {
		p := make([]int, n)
		for d := 0; d < n; d++ {
			p[d] = a[d] + roundDiv((b[d]-a[d])*t, steps)
		}
		path[t] = p
	}
	return path
}

// CellsForSize derives per-dimension cell counts from a target cell size:
// floor(width / cellSize), never less than one.
func CellsForSize(bounds []Range, cellSize float64) []int {
	out := make([]int, len(bounds))
	for n, r := range bounds {
		c := 1
		if cellSize > 0 {
			// Clamped so the conversion is defined; New rejects totals that overflow.
			c = int(math.Min(math.Floor(r.Width()/cellSize), math.MaxInt32))
		}
		out[n] = max(c, 1)
	}
	return out
}

// String renders the grid shape, e.g. "Grid(13x4x1)".
func (g Grid) String() string {
	parts := make([]string, len(g.cells))
	for i, c := range g.cells {
		parts[i] = strconv.Itoa(c)
	}
	return "Grid(" + strings.Join(parts, "x") + ")"
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// roundDiv returns num/den rounded half away from zero; den must be positive.
func roundDiv(num, den int) int {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((-2*num + den) / (2 * den))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
