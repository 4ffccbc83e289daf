// Package service drives the dataset conversions: it resolves configuration
// into dataset specs and runs the read-normalize-write pipeline to completion
// for one dataset per request. There is no retry and no checkpointing; a
// failed run is re-run from scratch against a fresh destination.
package service

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
)

// Option configures the Service.
type Option func(*Service)

// WithSource sets the input source (defaults to the local afs service).
func WithSource(src dataset.Source) Option {
	return func(s *Service) { s.source = src }
}

// Service exposes the conversion, stats, and check operations.
type Service struct {
	source dataset.Source
}

// New creates a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = dataset.New()
	}
	return s
}

// ResolveDatasets resolves dataset specs from flags and optional config.
// Flag values override config values for a single dataset; --all requires a
// config and runs every configured dataset.
func ResolveDatasets(req ResolveRequest) ([]DatasetSpec, error) {
	if req.All && req.ConfigPath == "" {
		return nil, fmt.Errorf("--all requires --config")
	}
	var cfg *Config
	if req.ConfigPath != "" {
		loaded, err := LoadConfig(req.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if req.All {
		var out []DatasetSpec
		for name, ds := range cfg.Datasets {
			if strings.TrimSpace(ds.Path) == "" {
				continue
			}
			spec, err := newSpec(name, ds.Path, ds.DB, cfg.Store.Dir)
			if err != nil {
				return nil, err
			}
			out = append(out, spec)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		if len(out) == 0 {
			return nil, fmt.Errorf("config has no datasets")
		}
		return out, nil
	}
	if req.Dataset == "" {
		return nil, fmt.Errorf("dataset is required (one of %s)", strings.Join(Names(), "|"))
	}
	input, db := req.InputPath, req.DBPath
	var dir string
	if cfg != nil {
		ds, ok := cfg.Datasets[req.Dataset]
		if !ok && input == "" && req.RequirePath {
			return nil, fmt.Errorf("dataset %q not found in config", req.Dataset)
		}
		if input == "" {
			input = ds.Path
		}
		if db == "" {
			db = ds.DB
		}
		dir = cfg.Store.Dir
	}
	if req.RequirePath && strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("dataset %q: input path is required", req.Dataset)
	}
	spec, err := newSpec(req.Dataset, input, db, dir)
	if err != nil {
		return nil, err
	}
	return []DatasetSpec{spec}, nil
}

func newSpec(name, input, db, storeDir string) (DatasetSpec, error) {
	if !knownDataset(name) {
		return DatasetSpec{}, fmt.Errorf("unknown dataset %q (expected one of %s)", name, strings.Join(Names(), "|"))
	}
	if db == "" {
		if storeDir == "" {
			return DatasetSpec{}, fmt.Errorf("dataset %q: destination db is required (set --db or store.dir)", name)
		}
		db = filepath.Join(storeDir, name+".db")
	}
	return DatasetSpec{Name: name, Path: input, DBPath: db}, nil
}

func knownDataset(name string) bool {
	for _, known := range Names() {
		if name == known {
			return true
		}
	}
	return false
}
