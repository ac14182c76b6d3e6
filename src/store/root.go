package store

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/yodacnv"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

// rootSource reads histograms out of a ROOT file. Histogram objects are
// bridged to hbook through their YODA form, which every 1D ROOT histogram
// class in groot knows how to emit.
type rootSource struct {
	path string
	f    *riofs.File
}

func openROOT(path string) (*rootSource, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{File: path}
	}
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &rootSource{path: path, f: f}, nil
}

func (s *rootSource) Close() error { return s.f.Close() }

// Get resolves name inside the file, descending into nested directories for
// each '/'-separated segment.
func (s *rootSource) Get(name string) (*hist.Series, error) {
	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}
	m, ok := obj.(yodacnv.Marshaler)
	if !ok {
		return nil, fmt.Errorf("store: object %q in %q is a %s, not a histogram", name, s.path, obj.Class())
	}
	raw, err := m.MarshalYODA()
	if err != nil {
		return nil, fmt.Errorf("store: convert %q from %q: %w", name, s.path, err)
	}
	var h hbook.H1D
	if err := h.UnmarshalYODA(raw); err != nil {
		return nil, fmt.Errorf("store: object %q in %q is not 1-dimensional: %w", name, s.path, err)
	}
	return hist.FromH1D(&h).WithName(name), nil
}

func (s *rootSource) object(name string) (root.Object, error) {
	var dir riofs.Directory = s.f
	segs := strings.Split(strings.Trim(name, "/"), "/")
	for i, seg := range segs {
		obj, err := dir.Get(seg)
		if err != nil {
			return nil, &NotFoundError{File: s.path, Name: name}
		}
		if i == len(segs)-1 {
			return obj, nil
		}
		sub, ok := obj.(riofs.Directory)
		if !ok {
			return nil, &NotFoundError{File: s.path, Name: name}
		}
		dir = sub
	}
	return nil, &NotFoundError{File: s.path, Name: name}
}

// Names walks the whole directory tree and returns the '/'-joined path of
// every non-directory object, sorted.
func (s *rootSource) Names() []string {
	var names []string
	collectKeys(s.f, "", &names)
	sort.Strings(names)
	return names
}

func collectKeys(dir riofs.Directory, prefix string, out *[]string) {
	for _, k := range dir.Keys() {
		name := k.Name()
		full := name
		if prefix != "" {
			full = prefix + "/" + name
		}
		if !strings.HasPrefix(k.ClassName(), "TDirectory") {
			*out = append(*out, full)
			continue
		}
		obj, err := dir.Get(name)
		if err != nil {
			Warnf("skipping unreadable directory %q: %v", full, err)
			continue
		}
		sub, ok := obj.(riofs.Directory)
		if !ok {
			*out = append(*out, full)
			continue
		}
		collectKeys(sub, full, out)
	}
}
