package engine

import (
	"context"
	"time"

	"github.com/donaldgifford/pricing-engine/internal/store"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// fakeStore records persistence calls for pass tests.
type fakeStore struct {
	createErr error

	createdRunID      string
	completedRunID    string
	completedProducts int
	completedAlerts   int
	inserted          map[string][]domain.Recommendation
	alertRecords      []domain.AlertRecord
}

var _ store.Store = (*fakeStore)(nil)

func (f *fakeStore) CreateRun(_ context.Context, id string, _ time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdRunID = id
	return nil
}

func (f *fakeStore) CompleteRun(_ context.Context, id string, _ time.Time, products, alertsFired int) error {
	f.completedRunID = id
	f.completedProducts = products
	f.completedAlerts = alertsFired
	return nil
}

func (f *fakeStore) GetRun(context.Context, string) (*domain.RunSummary, error) {
	return nil, nil
}

func (f *fakeStore) LatestRun(context.Context) (*domain.RunSummary, error) {
	return nil, nil
}

func (f *fakeStore) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

func (f *fakeStore) InsertRecommendations(_ context.Context, runID string, recs []domain.Recommendation) error {
	if f.inserted == nil {
		f.inserted = make(map[string][]domain.Recommendation)
	}
	f.inserted[runID] = append(f.inserted[runID], recs...)
	return nil
}

func (f *fakeStore) ListRecommendations(_ context.Context, runID string) ([]domain.Recommendation, error) {
	return f.inserted[runID], nil
}

func (f *fakeStore) InsertAlertRecord(_ context.Context, rec *domain.AlertRecord) error {
	f.alertRecords = append(f.alertRecords, *rec)
	return nil
}

func (f *fakeStore) ListAlertHistory(context.Context, int) ([]domain.AlertRecord, error) {
	return f.alertRecords, nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }

func (f *fakeStore) Ping(context.Context) error { return nil }
