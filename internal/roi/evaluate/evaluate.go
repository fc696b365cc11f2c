// Package evaluate measures how well each mining policy compresses traces
// into region visit sequences, how closely those sequences match a ground
// truth, and how long grid setup and mining take.
package evaluate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/space"
	"github.com/banshee-data/roimine/internal/timeutil"
)

// Options controls an evaluation run.
type Options struct {
	MinDensity int
	Algorithms []mining.Algorithm // empty means every algorithm
	// Truth optionally holds, per entity, one point per true stop. Entities
	// missing from Truth are left out of the accuracy figures.
	Truth space.Traces
	// Clock times grid setup and mining; nil uses the wall clock.
	Clock timeutil.Clock
}

// AlgorithmResult holds the figures for one policy.
type AlgorithmResult struct {
	Algorithm       string   `json:"algorithm"`
	Regions         int      `json:"regions"`
	Points          int      `json:"points"`
	MeanCompression float64  `json:"mean_compression"`
	StdCompression  float64  `json:"std_compression"`
	MinCompression  float64  `json:"min_compression"`
	MaxCompression  float64  `json:"max_compression"`
	MeanAccuracy    *float64 `json:"mean_accuracy,omitempty"`
	MiningMillis    float64  `json:"mining_ms"`
	TotalMillis     float64  `json:"total_ms"`
}

// Result is one evaluation over a fixed set of traces.
type Result struct {
	RunID       uuid.UUID         `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	Traces      int               `json:"traces"`
	Grid        string            `json:"grid"`
	SetupMillis float64           `json:"grid_setup_ms"`
	Algorithms  []AlgorithmResult `json:"algorithms"`
}

// Run builds one grid from traces and mines it with every requested policy.
// The grid is shared between policies; each run resets it afterwards.
func Run(traces space.Traces, build space.BuildConfig, opts Options) (*Result, error) {
	algos := opts.Algorithms
	if len(algos) == 0 {
		algos = mining.Algorithms()
	}

	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	res := &Result{
		RunID:     uuid.New(),
		StartedAt: clock.Now(),
		Traces:    len(traces),
	}

	setup := clock.Now()
	g, err := space.Build(traces, build)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	res.SetupMillis = millis(clock.Since(setup))
	res.Grid = g.Geometry().String()

	for _, a := range algos {
		ar, err := evaluateAlgorithm(g, traces, a, opts, clock)
		if err != nil {
			return nil, err
		}
		ar.TotalMillis = res.SetupMillis + ar.MiningMillis
		res.Algorithms = append(res.Algorithms, ar)
		monitoring.Logf("[Evaluate] %s: %d regions, compression %.4f, %.1f ms",
			ar.Algorithm, ar.Regions, ar.MeanCompression, ar.TotalMillis)
	}
	return res, nil
}

func evaluateAlgorithm(g *space.Grid, traces space.Traces, a mining.Algorithm, opts Options, clock timeutil.Clock) (AlgorithmResult, error) {
	m, err := mining.NewMiner(mining.Config{Algorithm: a})
	if err != nil {
		return AlgorithmResult{}, err
	}
	start := clock.Now()
	rois, err := m.Run(g, opts.MinDensity)
	if err != nil {
		return AlgorithmResult{}, fmt.Errorf("evaluate %s: %w", a, err)
	}
	ar := AlgorithmResult{
		Algorithm:    a.String(),
		Regions:      len(rois),
		MiningMillis: millis(clock.Since(start)),
	}

	geom := g.Geometry()
	var compressions, accuracies []float64
	for _, id := range traces.EntityIDs() {
		pts := traces[id]
		if len(pts) == 0 {
			continue
		}
		raw, err := mining.Visits(geom, pts, rois)
		if err != nil {
			return AlgorithmResult{}, fmt.Errorf("evaluate %s trace %q: %w", a, id, err)
		}
		compressions = append(compressions, Compression(len(raw), len(pts)))
		ar.Points += len(pts)

		truthPts, ok := opts.Truth[id]
		if !ok || len(truthPts) == 0 {
			continue
		}
		truth, err := mining.Visits(geom, truthPts, rois)
		if err != nil {
			return AlgorithmResult{}, fmt.Errorf("evaluate %s truth %q: %w", a, id, err)
		}
		accuracies = append(accuracies, Accuracy(raw, truth))
	}

	if len(compressions) > 0 {
		ar.MeanCompression, ar.StdCompression = stat.MeanStdDev(compressions, nil)
		if len(compressions) == 1 {
			ar.StdCompression = 0
		}
		ar.MinCompression = floats.Min(compressions)
		ar.MaxCompression = floats.Max(compressions)
	}
	if len(accuracies) > 0 {
		mean := stat.Mean(accuracies, nil)
		ar.MeanAccuracy = &mean
	}
	return ar, nil
}

// Compression returns the ratio of encoded visits to raw points; lower is
// more compact. It is 0 for an empty trace.
func Compression(visits, points int) float64 {
	if points == 0 {
		return 0
	}
	return float64(visits) / float64(points)
}

// Accuracy is the precision of a raw visit sequence against the truth: each
// truth id is matched to the next equal id in raw, scanning forward only,
// and the match count is divided by len(raw).
func Accuracy(raw, truth []int) float64 {
	if len(raw) == 0 || len(truth) == 0 {
		return 0
	}
	matched, i := 0, 0
	for _, want := range truth {
		for i < len(raw) {
			got := raw[i]
			i++
			if got == want {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(raw))
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
