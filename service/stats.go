package service

import (
	"context"

	"github.com/jayantmadugula/corpus-parsing-scripts/store"
)

// Stats summarizes a destination store: dataset name and per-table counts.
func (s *Service) Stats(ctx context.Context, req StatsRequest) (*StatsResult, error) {
	st, err := store.New(store.WithDSN(req.DBPath), store.WithEnsureSchema(false))
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	name, err := st.Meta(ctx, "dataset")
	if err != nil {
		return nil, err
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResult{Dataset: name, Counts: *counts}, nil
}

// Check audits a destination store for referential and ordering defects.
func (s *Service) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	st, err := store.New(store.WithDSN(req.DBPath), store.WithEnsureSchema(false))
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	name, err := st.Meta(ctx, "dataset")
	if err != nil {
		return nil, err
	}
	stats, err := st.Check(ctx)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Dataset: name, Stats: *stats}, nil
}
