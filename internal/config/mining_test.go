package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
	"github.com/banshee-data/roimine/internal/testutil"
)

func TestDefaultsFileMatchesAccessors(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultMiningConfig()

	assert.Equal(t, def.GetAlgorithm(), cfg.GetAlgorithm())
	assert.Equal(t, def.GetMinDensity(), cfg.GetMinDensity())
	assert.Equal(t, def.GetRadius(), cfg.GetRadius())
	assert.Equal(t, def.GetCellSize(), cfg.GetCellSize())
	assert.Equal(t, def.GetProgressStep(), cfg.GetProgressStep())
}

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	cfg := EmptyMiningConfig()
	assert.Equal(t, mining.Uniform, cfg.GetAlgorithm())
	assert.Equal(t, 5, cfg.GetMinDensity())
	assert.Equal(t, 0, cfg.GetRadius())
	assert.Equal(t, 100.0, cfg.GetCellSize())
	assert.Equal(t, 0.1, cfg.GetProgressStep())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMiningConfig(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "mine.json", `{
  "algorithm": "Slope",
  "min_density": 3,
  "radius": 1,
  "cells_per_dimension": [10, 20]
}`)
	cfg, err := LoadMiningConfig(path)
	require.NoError(t, err)

	assert.Equal(t, mining.Slope, cfg.GetAlgorithm())
	assert.Equal(t, 3, cfg.GetMinDensity())
	assert.Equal(t, 1, cfg.GetRadius())
	// Omitted fields keep their defaults.
	assert.Equal(t, 100.0, cfg.GetCellSize())
	assert.Equal(t, space.BuildConfig{CellsPerDimension: []int{10, 20}, CellSize: 100, Radius: 1}, cfg.BuildConfig())
}

func TestLoadMiningConfigRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"extension", "mine.yaml", `{}`, ".json extension"},
		{"syntax", "bad.json", `{"radius": }`, "parse config JSON"},
		{"algorithm", "algo.json", `{"algorithm": "kmeans"}`, "unknown"},
		{"min density", "min.json", `{"min_density": 0}`, "min_density"},
		{"radius", "radius.json", `{"radius": -1}`, "radius"},
		{"cells", "cells.json", `{"cells_per_dimension": [4, 0]}`, "cells_per_dimension[1]"},
		{"cell size", "size.json", `{"cell_size": 0}`, "cell_size"},
		{"progress", "progress.json", `{"progress_step": 1.5}`, "progress_step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.file, tt.content)
			_, err := LoadMiningConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadMiningConfig(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMiningConfigTooLarge(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "big.json",
		`{"algorithm": "uniform", "pad": "`+strings.Repeat("x", 1024*1024)+`"}`)
	_, err := LoadMiningConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestGridCells(t *testing.T) {
	testutil.MuteLogs(t)

	bounds := []ndgrid.Range{{Min: 0, Max: 250}, {Min: 0, Max: 40}}

	cfg := EmptyMiningConfig()
	assert.Equal(t, []int{2, 1}, cfg.BuildConfig().Cells(bounds))

	cfg.CellSize = ptrFloat64(10)
	assert.Equal(t, []int{25, 4}, cfg.BuildConfig().Cells(bounds))

	cfg.CellsPerDimension = []int{7, 3}
	assert.Equal(t, []int{7, 3}, cfg.BuildConfig().Cells(bounds))

	// Explicit counts for the wrong dimensionality are ignored.
	assert.Equal(t, []int{25, 4, 1}, cfg.BuildConfig().Cells(append(bounds, ndgrid.Range{Min: 0, Max: 5})))
}
