// Package synth generates deterministic synthetic traces for tests, demos and
// the benchmark tool.
package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/banshee-data/roimine/internal/roi/space"
)

func traceID(i int) string { return fmt.Sprintf("trace-%03d", i) }

// Straight returns n identical traces running from the origin to distance
// along the first dimension, one point per unit step.
func Straight(nDims, distance, n int) space.Traces {
	pts := make([][]float64, 0, distance+1)
	for x := 0; x <= distance; x++ {
		p := make([]float64, nDims)
		p[0] = float64(x)
		pts = append(pts, p)
	}
	out := make(space.Traces, n)
	for i := 0; i < n; i++ {
		out[traceID(i)] = clonePoints(pts)
	}
	return out
}

// Repeated returns n traces that each visit every point of pool in order.
func Repeated(pool [][]float64, n int) space.Traces {
	out := make(space.Traces, n)
	for i := 0; i < n; i++ {
		out[traceID(i)] = clonePoints(pool)
	}
	return out
}

// DensitySloping returns n traces that follow pool for a varying number of
// points: trace i stops after 2 + i mod (len(pool)-1) points. Every trace
// covers the first segment and fewer traces reach each later one, so density
// never increases along the polyline.
func DensitySloping(pool [][]float64, n int) space.Traces {
	out := make(space.Traces, n)
	if len(pool) < 2 {
		return Repeated(pool, n)
	}
	for i := 0; i < n; i++ {
		k := 2 + i%(len(pool)-1)
		out[traceID(i)] = clonePoints(pool[:k])
	}
	return out
}

// Generator produces random-walk traces that pause at stops. The zero value
// is not usable; call NewGenerator.
type Generator struct {
	Dims            int     // coordinate dimensions
	Extent          float64 // walks are confined to [0, Extent] in every dimension
	Steps           int     // moves per trace
	StepSize        float64 // maximum displacement per move along each axis
	StopProbability float64 // chance of pausing before a move
	StopLength      int     // repeated samples per pause
	Hotspots        int     // shared attraction points; 0 disables them

	rng      *rand.Rand
	hotspots [][]float64
}

// NewGenerator returns a generator with defaults suited to a 2-D 100x100
// study area and a fixed seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Dims:            2,
		Extent:          100,
		Steps:           60,
		StepSize:        4,
		StopProbability: 0.1,
		StopLength:      5,
		Hotspots:        3,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// Walks returns n random-walk traces. Each walk starts near a hotspot (when
// enabled) and drifts towards the next one, pausing at random.
func (g *Generator) Walks(n int) space.Traces {
	if g.Hotspots > 0 && len(g.hotspots) == 0 {
		g.hotspots = make([][]float64, g.Hotspots)
		for i := range g.hotspots {
			g.hotspots[i] = g.randomPoint()
		}
	}
	out := make(space.Traces, n)
	for i := 0; i < n; i++ {
		out[traceID(i)] = g.walk(i)
	}
	return out
}

func (g *Generator) walk(i int) [][]float64 {
	var cur, target []float64
	if len(g.hotspots) > 0 {
		cur = g.jitter(g.hotspots[i%len(g.hotspots)])
		target = g.hotspots[(i+1)%len(g.hotspots)]
	} else {
		cur = g.randomPoint()
	}

	pts := [][]float64{cur}
	for s := 0; s < g.Steps; s++ {
		if g.StopProbability > 0 && g.rng.Float64() < g.StopProbability {
			for k := 0; k < g.StopLength; k++ {
				pts = append(pts, clonePoint(cur))
			}
		}
		next := make([]float64, g.Dims)
		for d := range next {
			step := (g.rng.Float64()*2 - 1) * g.StepSize
			if target != nil {
				step += math.Copysign(math.Min(g.StepSize/2, math.Abs(target[d]-cur[d])), target[d]-cur[d])
			}
			next[d] = clamp(cur[d]+step, 0, g.Extent)
		}
		pts = append(pts, next)
		cur = next
	}
	return pts
}

func (g *Generator) randomPoint() []float64 {
	p := make([]float64, g.Dims)
	for d := range p {
		p[d] = g.rng.Float64() * g.Extent
	}
	return p
}

func (g *Generator) jitter(p []float64) []float64 {
	out := make([]float64, len(p))
	for d, v := range p {
		out[d] = clamp(v+(g.rng.Float64()*2-1)*g.StepSize, 0, g.Extent)
	}
	return out
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func clonePoint(p []float64) []float64 { return append([]float64(nil), p...) }

func clonePoints(pts [][]float64) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = clonePoint(p)
	}
	return out
}
