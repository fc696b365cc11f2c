package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/banshee-data/roimine/internal/config"
	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/evaluate"
	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/space"
	"github.com/banshee-data/roimine/internal/roi/synth"
	"github.com/banshee-data/roimine/internal/timeutil"
	"github.com/banshee-data/roimine/internal/tracestore"
)

// stopPool is the polyline followed by the repeated and sloping datasets.
// Its vertices are the true stops used for accuracy.
var stopPool = [][]float64{{0, 0}, {40, 0}, {40, 30}, {80, 30}, {80, 70}, {20, 70}}

type benchOptions struct {
	DBPath     string
	Batch      string
	Dataset    string
	Traces     int
	Seed       int64
	Algorithms []mining.Algorithm
	Config     *config.MiningConfig
	Clock      timeutil.Clock
}

func benchmark(ctx context.Context, opts benchOptions) (*evaluate.Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.EmptyMiningConfig()
	}
	traces, truth, err := benchTraces(ctx, opts)
	if err != nil {
		return nil, err
	}
	return evaluate.Run(traces, cfg.BuildConfig(), evaluate.Options{
		MinDensity: cfg.GetMinDensity(),
		Algorithms: opts.Algorithms,
		Truth:      truth,
		Clock:      opts.Clock,
	})
}

// benchTraces returns the traces to evaluate and, when the dataset has known
// stops, the truth points per entity.
func benchTraces(ctx context.Context, opts benchOptions) (space.Traces, space.Traces, error) {
	if opts.DBPath != "" {
		store, err := tracestore.Open(opts.DBPath)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		return storedTraces(ctx, store, opts)
	}

	if opts.Traces < 1 {
		return nil, nil, fmt.Errorf("need at least one trace, got %d", opts.Traces)
	}
	switch opts.Dataset {
	case "walks":
		return synth.NewGenerator(opts.Seed).Walks(opts.Traces), nil, nil
	case "straight":
		return synth.Straight(2, 100, opts.Traces), nil, nil
	case "repeated":
		traces := synth.Repeated(stopPool, opts.Traces)
		return traces, truthFor(traces, stopPool), nil
	case "sloping":
		traces := synth.DensitySloping(stopPool, opts.Traces)
		truth := space.Traces{}
		for id, pts := range traces {
			truth[id] = pts
		}
		return traces, truth, nil
	default:
		return nil, nil, fmt.Errorf("unknown dataset %q", opts.Dataset)
	}
}

// storedTraces loads every stored trace, or only those of opts.Batch.
func storedTraces(ctx context.Context, store *tracestore.Store, opts benchOptions) (space.Traces, space.Traces, error) {
	var (
		traces space.Traces
		err    error
	)
	if opts.Batch != "" {
		traces, err = store.LoadBatch(ctx, opts.Batch)
	} else {
		traces, err = store.LoadTraces(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(traces) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", opts.DBPath, space.ErrNoTraces)
	}
	ids, err := store.EntityIDs(ctx)
	if err != nil {
		return nil, nil, err
	}
	monitoring.Logf("[roi-bench] Loaded %d of %d stored entities from %s", len(traces), len(ids), opts.DBPath)
	return traces, nil, nil
}

func truthFor(traces space.Traces, stops [][]float64) space.Traces {
	truth := make(space.Traces, len(traces))
	for id := range traces {
		truth[id] = stops
	}
	return truth
}

func printTable(w io.Writer, res *evaluate.Result) error {
	fmt.Fprintf(w, "run %s: %d traces on %s, grid setup %.2f ms\n",
		res.RunID, res.Traces, res.Grid, res.SetupMillis)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tREGIONS\tCOMPRESSION\tSTD\tACCURACY\tMINING ms\tTOTAL ms")
	for _, ar := range res.Algorithms {
		acc := "-"
		if ar.MeanAccuracy != nil {
			acc = fmt.Sprintf("%.4f", *ar.MeanAccuracy)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%s\t%.2f\t%.2f\n",
			ar.Algorithm, ar.Regions, ar.MeanCompression, ar.StdCompression, acc,
			ar.MiningMillis, ar.TotalMillis)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, res *evaluate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
