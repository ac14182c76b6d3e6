// Package store loads named histograms from analysis output files. It speaks
// ROOT files through go-hep's groot and plain-text YODA files, and hands both
// back as hist.Series so the rest of the program never sees a file format.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

// Source is a read-only histogram container.
//
// Get resolves a name such as "ttbar/HT", where '/' descends into nested
// directories for formats that have them. Names lists every histogram path in
// the source, sorted.
type Source interface {
	Get(name string) (*hist.Series, error)
	Names() []string
	Close() error
}

// NotFoundError reports a missing histogram or file. Lookups for names that
// simply are not there are expected during scans, so callers down-grade these
// to skips instead of aborting a batch.
type NotFoundError struct {
	File string
	Name string // empty when the file itself is missing
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("store: file %q not found", e.File)
	}
	return fmt.Sprintf("store: no histogram %q in %q", e.Name, e.File)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Open opens a histogram source, picking the backend from the file
// extension: .root via groot, .yoda/.yoda.gz as YODA text.
func Open(path string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".root":
		return openROOT(path)
	case ".yoda", ".gz":
		return openYODA(path)
	default:
		return nil, fmt.Errorf("store: unsupported histogram file %q (extension %q)", path, ext)
	}
}

// Pool caches open sources by path so a batch of plots reads each input file
// once instead of reopening it per histogram. Safe for concurrent use.
type Pool struct {
	mu   sync.Mutex
	srcs map[string]Source
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{srcs: make(map[string]Source)}
}

// Source returns the open source for path, opening it on first use.
func (p *Pool) Source(path string) (Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.srcs[path]; ok {
		return s, nil
	}
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	p.srcs[path] = s
	Debugf("opened %s", path)
	return s, nil
}

// Get fetches one histogram from the named file.
func (p *Pool) Get(path, name string) (*hist.Series, error) {
	s, err := p.Source(path)
	if err != nil {
		return nil, err
	}
	return s.Get(name)
}

// Close closes every cached source and empties the pool. The first error is
// returned, but all sources are closed regardless.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	paths := make([]string, 0, len(p.srcs))
	for path := range p.srcs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := p.srcs[path].Close(); err != nil && first == nil {
			first = fmt.Errorf("store: close %q: %w", path, err)
		}
	}
	p.srcs = make(map[string]Source)
	return first
}
