package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pastika/LongExerciseSusyTopTag/src/store"
)

func main() {
	var file string
	var name string
	var max int
	var logLevel string
	flag.StringVar(&file, "file", "", "Histogram file to inspect (.root, .yoda or .yoda.gz)")
	flag.StringVar(&name, "name", "", "Histogram to dump bin by bin (empty = list all)")
	flag.IntVar(&max, "n", 0, "Max bins to print (0 = all)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()

	store.SetLogLevel(logLevel)

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: histdump -file <histograms.root> [-name region/hist]")
		os.Exit(2)
	}
	src, err := store.Open(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	if name != "" {
		s, err := src.Get(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		edges := s.Edges()
		n := s.Bins()
		if max > 0 && max < n {
			n = max
		}
		for i := 0; i < n; i++ {
			fmt.Printf("[%g, %g)  %g +- %g\n", edges[i], edges[i+1], s.Value(i), s.Err(i))
		}
		if n < s.Bins() {
			fmt.Printf("... %d more bins\n", s.Bins()-n)
		}
		fmt.Printf("integral: %g\n", s.Integral())
		return
	}

	names := src.Names()
	fmt.Printf("%s: %d histograms\n", file, len(names))
	for _, nm := range names {
		s, err := src.Get(nm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", nm, err)
			continue
		}
		fmt.Printf("%-40s %4d bins  [%g, %g)  integral %g\n", nm, s.Bins(), s.XMin(), s.XMax(), s.Integral())
	}
}
