package handlers_test

import (
	"context"
	"time"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// fakeStore is a hand-rolled test double for store.Store.
type fakeStore struct {
	pingErr   error
	runs      []domain.RunSummary
	latest    *domain.RunSummary
	latestErr error
	recs      map[string][]domain.Recommendation
	listErr   error
}

func (f *fakeStore) CreateRun(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeStore) CompleteRun(_ context.Context, _ string, _ time.Time, _, _ int) error {
	return nil
}

func (f *fakeStore) GetRun(_ context.Context, id string) (*domain.RunSummary, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LatestRun(_ context.Context) (*domain.RunSummary, error) {
	return f.latest, f.latestErr
}

func (f *fakeStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

func (f *fakeStore) InsertRecommendations(_ context.Context, _ string, _ []domain.Recommendation) error {
	return nil
}

func (f *fakeStore) ListRecommendations(_ context.Context, runID string) ([]domain.Recommendation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recs[runID], nil
}

func (f *fakeStore) InsertAlertRecord(_ context.Context, _ *domain.AlertRecord) error { return nil }

func (f *fakeStore) ListAlertHistory(_ context.Context, _ int) ([]domain.AlertRecord, error) {
	return nil, nil
}

func (f *fakeStore) Migrate(_ context.Context) error { return nil }

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }
