// Command roi-bench evaluates every mining policy on synthetic or stored
// traces and reports compression, accuracy and running time per policy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/roimine/internal/config"
	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a mining config JSON file (grid and min density)")
	dbPath      = flag.String("db", "", "Benchmark the traces in this SQLite store instead of synthetic ones")
	batchID     = flag.String("batch", "", "With -db, benchmark only the traces of this import batch")
	dataset     = flag.String("synth", "walks", "Synthetic dataset: walks, straight, repeated or sloping")
	numTraces   = flag.Int("traces", 50, "Number of synthetic traces")
	seed        = flag.Int64("seed", 1, "Random seed for the walks dataset")
	algorithms  = flag.String("algorithms", "", "Comma-separated policies to evaluate (default all)")
	minDensity  = flag.Int("min-density", 0, "Minimum cell density for a region (overrides config)")
	cellSize    = flag.Float64("cell-size", 0, "Cell edge length (overrides config)")
	jsonOut     = flag.String("json", "", "Write the full result as JSON to this file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("roi-bench"))
		return
	}

	cfg := config.EmptyMiningConfig()
	if *configPath != "" {
		loaded, err := config.LoadMiningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *minDensity > 0 {
		cfg.MinDensity = minDensity
	}
	if *cellSize > 0 {
		cfg.CellSize = cellSize
	}

	algos, err := parseAlgorithms(*algorithms)
	if err != nil {
		log.Fatalf("invalid -algorithms: %v", err)
	}

	res, err := benchmark(context.Background(), benchOptions{
		DBPath:     *dbPath,
		Batch:      *batchID,
		Dataset:    *dataset,
		Traces:     *numTraces,
		Seed:       *seed,
		Algorithms: algos,
		Config:     cfg,
	})
	if err != nil {
		log.Fatalf("benchmark: %v", err)
	}

	if err := printTable(os.Stdout, res); err != nil {
		log.Fatalf("print results: %v", err)
	}
	if *jsonOut != "" {
		f, err := os.Create(*jsonOut)
		if err != nil {
			log.Fatalf("create %s: %v", *jsonOut, err)
		}
		if err := writeJSON(f, res); err != nil {
			f.Close()
			log.Fatalf("write %s: %v", *jsonOut, err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close %s: %v", *jsonOut, err)
		}
		log.Printf("Results exported to: %s", *jsonOut)
	}
}

func parseAlgorithms(s string) ([]mining.Algorithm, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []mining.Algorithm
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		a, err := mining.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
