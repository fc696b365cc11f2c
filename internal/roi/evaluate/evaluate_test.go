package evaluate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/space"
	"github.com/banshee-data/roimine/internal/roi/synth"
	"github.com/banshee-data/roimine/internal/testutil"
	"github.com/banshee-data/roimine/internal/timeutil"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		raw, truth []int
		want       float64
	}{
		{"identical", []int{1, 2, 3}, []int{1, 2, 3}, 1},
		{"extra raw visits", []int{1, 4, 2, 5}, []int{1, 2}, 0.5},
		{"out of order truth", []int{1, 2}, []int{2, 1}, 0.5},
		{"empty raw", nil, []int{1}, 0},
		{"empty truth", []int{1}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Accuracy(tt.raw, tt.truth), 1e-12)
		})
	}
}

func TestCompression(t *testing.T) {
	assert.Equal(t, 0.25, Compression(2, 8))
	assert.Equal(t, 0.0, Compression(3, 0))
}

func TestRun(t *testing.T) {
	testutil.MuteLogs(t)

	pool := [][]float64{{0, 0}, {3, 0}, {6, 0}, {6, 3}}
	traces := synth.Repeated(pool, 6)
	truth := space.Traces{}
	for id := range traces {
		truth[id] = [][]float64{{0, 0}}
	}

	res, err := Run(traces, space.BuildConfig{CellsPerDimension: []int{7, 4}}, Options{
		MinDensity: 3,
		Algorithms: []mining.Algorithm{mining.Threshold, mining.Uniform},
		Truth:      truth,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, 6, res.Traces)
	assert.Equal(t, "Grid(7x4)", res.Grid)
	require.Len(t, res.Algorithms, 2)

	th := res.Algorithms[0]
	assert.Equal(t, "threshold", th.Algorithm)
	assert.Equal(t, 1, th.Regions)
	assert.Equal(t, 24, th.Points)
	// Every trace collapses to the single threshold region: 1 visit / 4 points.
	assert.InDelta(t, 0.25, th.MeanCompression, 1e-12)
	assert.InDelta(t, 0.0, th.StdCompression, 1e-12)
	require.NotNil(t, th.MeanAccuracy)
	assert.InDelta(t, 1.0, *th.MeanAccuracy, 1e-12)
	assert.GreaterOrEqual(t, th.TotalMillis, th.MiningMillis)
}

func TestRunTimingUsesClock(t *testing.T) {
	testutil.MuteLogs(t)

	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := timeutil.NewSteppingClock(start, time.Millisecond)
	res, err := Run(synth.Straight(2, 5, 3), space.BuildConfig{CellsPerDimension: []int{5, 5}}, Options{
		MinDensity: 2,
		Algorithms: []mining.Algorithm{mining.Disjoint, mining.Slope},
		Clock:      clock,
	})
	require.NoError(t, err)

	assert.True(t, start.Equal(res.StartedAt))
	assert.Equal(t, 1.0, res.SetupMillis)
	for _, ar := range res.Algorithms {
		assert.Equal(t, 1.0, ar.MiningMillis, ar.Algorithm)
		assert.Equal(t, 2.0, ar.TotalMillis, ar.Algorithm)
	}
}
