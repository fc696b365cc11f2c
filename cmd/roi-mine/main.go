// Command roi-mine builds a density grid from movement traces, mines it for
// regions of interest with one policy, and writes the regions, each trace's
// region visit sequence and density heatmaps to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/banshee-data/roimine/internal/config"
	"github.com/banshee-data/roimine/internal/fsutil"
	"github.com/banshee-data/roimine/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a mining config JSON file (defaults apply when empty)")
	csvPath     = flag.String("csv", "", "CSV of traces: entity_id,c0,c1[,...]")
	dbPath      = flag.String("db", "", "SQLite trace store; traces are read from it when -csv is empty")
	importCSV   = flag.Bool("import", false, "Store the -csv traces in -db before mining")
	saveRun     = flag.Bool("save", false, "Record the run and its regions in -db")
	algorithm   = flag.String("algorithm", "", "Policy: disjoint, uniform, slope, expansive, threshold or hybrid")
	minDensity  = flag.Int("min-density", 0, "Minimum cell density for a region")
	radius      = flag.Int("radius", -1, "Neighbourhood radius credited around each trace cell")
	cells       = flag.String("cells", "", "Comma-separated cell counts per dimension, e.g. 40,30")
	cellSize    = flag.Float64("cell-size", 0, "Cell edge length used when -cells is not given")
	outDir      = flag.String("out", "roi-out", "Output directory")
	writeHTML   = flag.Bool("html", true, "Write an interactive HTML heatmap")
	writePNG    = flag.Bool("png", true, "Write a PNG heatmap")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("roi-mine"))
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
	if err := applyFlagOverrides(cfg); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	opts := options{
		CSVPath: *csvPath,
		DBPath:  *dbPath,
		Import:  *importCSV,
		Save:    *saveRun,
		OutDir:  *outDir,
		HTML:    *writeHTML,
		PNG:     *writePNG,
		Config:  cfg,
	}
	res, err := mine(context.Background(), opts, fsutil.OSFileSystem{})
	if err != nil {
		log.Fatalf("mine: %v", err)
	}
	fmt.Printf("%s found %d regions in %s; results in %s\n",
		res.Algorithm, len(res.Regions), res.Grid, *outDir)
}

// applyFlagOverrides copies every explicitly set mining flag into cfg and
// re-validates it.
func applyFlagOverrides(cfg *config.MiningConfig) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "algorithm":
			cfg.Algorithm = algorithm
		case "min-density":
			cfg.MinDensity = minDensity
		case "radius":
			cfg.Radius = radius
		case "cell-size":
			cfg.CellSize = cellSize
		case "cells":
			var counts []int
			if counts, err = parseCells(*cells); err == nil {
				cfg.CellsPerDimension = counts
			}
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func parseCells(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("-cells: %q is not an integer", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("-cells: no counts in %q", s)
	}
	return out, nil
}
