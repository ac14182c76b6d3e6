// Control-region comparison plotter entrypoint.
//
// For every configured control region the program renders one data/background
// comparison figure per configured histogram: stacked backgrounds, data points
// with error bars, optional signal overlays and a data/BG ratio pad, stamped
// with the experiment labels. Missing input files or histograms skip the
// affected plot and the run keeps going.
//
// Design notes:
// - The built-in configuration reproduces the standard 2018 control-region
//   setup (7 regions, 9 backgrounds, 11 histograms); -config swaps in a JSONC
//   file with the same shape.
// - Input files are opened once and shared across all plots of a run.
// - Exit code is non-zero only for setup problems (config, output directory);
//   per-plot failures are logged and counted.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pastika/LongExerciseSusyTopTag/src/plotting"
	"github.com/pastika/LongExerciseSusyTopTag/src/report"
	"github.com/pastika/LongExerciseSusyTopTag/src/store"
	"github.com/pastika/LongExerciseSusyTopTag/src/types"
)

// filterSet parses a comma-separated filter flag into a lookup set.
// An empty flag means no filtering and returns nil.
func filterSet(csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}

// entries resolves configured samples into plotter entries.
func entries(samples []types.Sample) ([]plotting.Entry, error) {
	es := make([]plotting.Entry, len(samples))
	for i, s := range samples {
		e, err := plotting.NewEntry(s)
		if err != nil {
			return nil, err
		}
		es[i] = e
	}
	return es, nil
}

func main() {
	configPath := flag.String("config", "", "Path to JSONC config file (empty = built-in control-region setup)")
	outDir := flag.String("outdir", "plots", "Directory receiving the rendered images")
	inDir := flag.String("indir", "", "Directory holding the input histogram files (overrides the config's input_dir)")
	lumi := flag.Float64("lumi", 0, "Integrated luminosity in 1/pb stamped on each figure (0 = config value)")
	regions := flag.String("regions", "", "Comma-separated region filter (empty = all configured regions)")
	plots := flag.String("plots", "", "Comma-separated histogram filter (empty = all configured histograms)")
	yields := flag.Bool("yields", true, "Print the per-region yields table and write yields.png")
	yieldsHist := flag.String("yields-hist", "nJets", "Histogram used for the yields summary")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	store.SetLogLevel(*logLevel)

	cfg := types.Default()
	if *configPath != "" {
		var err error
		cfg, err = types.Load(*configPath)
		if err != nil {
			fmt.Printf("load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *inDir != "" {
		cfg.InputDir = *inDir
	}
	if *lumi > 0 {
		cfg.LumiPb = *lumi
	}
	cfg = cfg.ResolveInputs()

	if keep := filterSet(*regions); keep != nil {
		var kept []types.Region
		for _, r := range cfg.Regions {
			if keep[r.Name] {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			fmt.Printf("no configured region matches -regions=%s\n", *regions)
			os.Exit(1)
		}
		cfg.Regions = kept
	}
	if keep := filterSet(*plots); keep != nil {
		var kept []types.PlotDef
		for _, d := range cfg.Plots {
			if keep[d.Name] {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			fmt.Printf("no configured histogram matches -plots=%s\n", *plots)
			os.Exit(1)
		}
		cfg.Plots = kept
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Printf("create output directory: %v\n", err)
		os.Exit(1)
	}

	bgs, err := entries(cfg.Backgrounds)
	if err != nil {
		fmt.Printf("backgrounds: %v\n", err)
		os.Exit(1)
	}
	sigs, err := entries(cfg.Signals)
	if err != nil {
		fmt.Printf("signals: %v\n", err)
		os.Exit(1)
	}

	pool := store.NewPool()
	defer pool.Close()

	start := time.Now()
	var done, skipped, failed int
	for _, region := range cfg.Regions {
		data, err := plotting.NewEntry(region.Data)
		if err != nil {
			fmt.Printf("region %s: %v\n", region.Name, err)
			os.Exit(1)
		}
		pltr := plotting.NewPlotter(pool, data, bgs, sigs)
		pltr.OutDir = *outDir
		pltr.LumiPb = cfg.LumiPb

		for _, def := range cfg.Plots {
			regionDef := def
			regionDef.Name = region.Name + "/" + def.Name
			path, err := pltr.Plot(regionDef)
			switch {
			case store.IsNotFound(err):
				store.Warnf("skipping %s: %v", regionDef.Name, err)
				skipped++
			case err != nil:
				store.Errorf("plot %s: %v", regionDef.Name, err)
				failed++
			default:
				store.Infof("wrote %s", path)
				done++
			}
		}
	}

	if *yields {
		ys, err := report.Collect(pool, cfg, *yieldsHist)
		if err != nil {
			store.Errorf("yields: %v", err)
		} else {
			report.WriteTable(os.Stdout, ys)
			img, err := report.Chart(ys, 800, 320)
			if err != nil {
				store.Errorf("yields chart: %v", err)
			} else {
				path := filepath.Join(*outDir, "yields.png")
				if err := os.WriteFile(path, img, 0644); err != nil {
					store.Errorf("yields chart: %v", err)
				} else {
					store.Infof("wrote %s", path)
				}
			}
		}
	}

	store.Infof("plotted %d histograms (%d skipped, %d failed) at %s in %s",
		done, skipped, failed, plotting.LumiLabel(cfg.LumiPb), time.Since(start).Round(time.Millisecond))
}
