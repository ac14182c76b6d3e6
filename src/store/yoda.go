package store

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/yodacnv"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

// yodaSource holds a YODA file fully decoded in memory. The format is a flat
// stream of blocks, so directory-style names are just path strings with '/'.
type yodaSource struct {
	path  string
	hists map[string]*hist.Series
}

func openYODA(path string) (*yodaSource, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{File: path}
		}
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("store: open %q: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	objs, err := yodacnv.Read(r)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}
	src := &yodaSource{path: path, hists: make(map[string]*hist.Series, len(objs))}
	for _, obj := range objs {
		h, ok := obj.(*hbook.H1D)
		if !ok {
			continue // only 1D histograms are of interest here
		}
		name := yodaPath(h.Name())
		src.hists[name] = hist.FromH1D(h).WithName(name)
	}
	if len(src.hists) == 0 {
		Warnf("no 1D histograms in %s", path)
	}
	return src, nil
}

// yodaPath strips the leading '/' that YODA object paths carry.
func yodaPath(name string) string { return strings.TrimPrefix(name, "/") }

func (s *yodaSource) Get(name string) (*hist.Series, error) {
	if h, ok := s.hists[yodaPath(name)]; ok {
		return h, nil
	}
	return nil, &NotFoundError{File: s.path, Name: name}
}

func (s *yodaSource) Names() []string {
	names := make([]string, 0, len(s.hists))
	for name := range s.hists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *yodaSource) Close() error { return nil }
