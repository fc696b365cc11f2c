package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/roimine/internal/config"
	"github.com/banshee-data/roimine/internal/fsutil"
	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/report"
	"github.com/banshee-data/roimine/internal/roi/space"
	"github.com/banshee-data/roimine/internal/tracestore"
)

// Output file names inside the output directory.
const (
	regionsFile = "regions.json"
	visitsFile  = "visits.json"
	htmlFile    = "heatmap.html"
	pngFile     = "heatmap.png"
)

var (
	errNoInput   = errors.New("either -csv or -db is required")
	errNeedStore = errors.New("-import and -save require -db")
)

type options struct {
	CSVPath string
	DBPath  string
	Import  bool
	Save    bool
	OutDir  string
	HTML    bool
	PNG     bool
	Config  *config.MiningConfig
}

// result is written to regions.json.
type result struct {
	RunID              uuid.UUID       `json:"run_id"`
	BatchID            string          `json:"batch_id,omitempty"`
	Algorithm          string          `json:"algorithm"`
	MinDensity         int             `json:"min_density"`
	Radius             int             `json:"radius"`
	Grid               string          `json:"grid"`
	Traces             int             `json:"traces"`
	Points             int             `json:"points"`
	MaxPossibleDensity int             `json:"max_possible_density"`
	Regions            []space.Summary `json:"regions"`
}

func mine(ctx context.Context, opts options, fsys fsutil.FileSystem) (*result, error) {
	if opts.Config == nil {
		opts.Config = config.EmptyMiningConfig()
	}
	cfg := opts.Config
	if (opts.Import || opts.Save) && opts.DBPath == "" {
		return nil, errNeedStore
	}

	var store *tracestore.Store
	if opts.DBPath != "" {
		s, err := tracestore.Open(opts.DBPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		store = s
	}

	traces, batchID, err := loadTraces(ctx, opts, store, fsys)
	if err != nil {
		return nil, err
	}

	g, err := space.Build(traces, cfg.BuildConfig())
	if err != nil {
		return nil, err
	}
	miner, err := mining.NewMiner(mining.Config{
		Algorithm: cfg.GetAlgorithm(),
		Progress:  monitoring.ProgressLogger("[roi-mine] mining", cfg.GetProgressStep()),
	})
	if err != nil {
		return nil, err
	}
	rois, err := miner.Run(g, cfg.GetMinDensity())
	if err != nil {
		return nil, err
	}

	res := &result{
		RunID:              uuid.New(),
		BatchID:            batchID,
		Algorithm:          miner.Algorithm().String(),
		MinDensity:         cfg.GetMinDensity(),
		Radius:             cfg.GetRadius(),
		Grid:               g.Geometry().String(),
		Traces:             len(traces),
		Points:             traces.Points(),
		MaxPossibleDensity: g.MaxPossibleDensity(),
		Regions:            make([]space.Summary, 0, len(rois)),
	}
	for _, roi := range rois {
		sum, err := space.Summarize(g, roi)
		if err != nil {
			return nil, fmt.Errorf("summarise region %d: %w", roi.ID, err)
		}
		res.Regions = append(res.Regions, sum)
	}
	visits, err := mining.VisitSequences(g.Geometry(), traces, rois)
	if err != nil {
		return nil, err
	}

	if err := fsys.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := writeJSON(fsys, filepath.Join(opts.OutDir, regionsFile), res); err != nil {
		return nil, err
	}
	if err := writeJSON(fsys, filepath.Join(opts.OutDir, visitsFile), visits); err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s regions (min density %d)", res.Algorithm, res.MinDensity)
	if opts.HTML {
		if err := writeFile(fsys, filepath.Join(opts.OutDir, htmlFile), func(w io.Writer) error {
			return report.WriteHTML(w, title, g, rois)
		}); err != nil {
			return nil, err
		}
	}
	if opts.PNG {
		if err := writeFile(fsys, filepath.Join(opts.OutDir, pngFile), func(w io.Writer) error {
			return report.RenderPNG(w, title, g, rois)
		}); err != nil {
			return nil, err
		}
	}

	if opts.Save {
		if _, err := store.SaveRun(ctx, tracestore.RunRecord{
			ID:         res.RunID,
			Algorithm:  res.Algorithm,
			MinDensity: res.MinDensity,
			Radius:     res.Radius,
			Grid:       res.Grid,
			Regions:    res.Regions,
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// loadTraces reads the CSV input, or every stored trace when no CSV is given.
// With Import set the CSV traces are stored and the batch id is returned.
func loadTraces(ctx context.Context, opts options, store *tracestore.Store, fsys fsutil.FileSystem) (space.Traces, string, error) {
	if opts.CSVPath == "" {
		if store == nil {
			return nil, "", errNoInput
		}
		traces, err := store.LoadTraces(ctx)
		if err != nil {
			return nil, "", err
		}
		if len(traces) == 0 {
			return nil, "", fmt.Errorf("%s: %w", opts.DBPath, space.ErrNoTraces)
		}
		return traces, "", nil
	}

	f, err := fsys.Open(opts.CSVPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	traces, err := tracestore.ReadCSV(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", opts.CSVPath, err)
	}
	if !opts.Import {
		return traces, "", nil
	}
	batchID, err := store.InsertTraces(ctx, traces)
	if err != nil {
		return nil, "", err
	}
	return traces, batchID, nil
}

func writeJSON(fsys fsutil.FileSystem, path string, v any) error {
	return writeFile(fsys, path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeFile(fsys fsutil.FileSystem, path string, fill func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
