// Package store defines the optional datastore abstraction for persisting
// recommendation runs and alert history. Business logic depends on the
// Store interface, never on concrete implementations; a nil store means
// the engine runs CSV-only.
package store

import (
	"context"
	"time"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// Store defines all data access operations for the pricing engine.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, id string, startedAt time.Time) error
	CompleteRun(ctx context.Context, id string, finishedAt time.Time, products, alertsFired int) error
	GetRun(ctx context.Context, id string) (*domain.RunSummary, error)
	LatestRun(ctx context.Context) (*domain.RunSummary, error)
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Recommendations
	InsertRecommendations(ctx context.Context, runID string, recs []domain.Recommendation) error
	ListRecommendations(ctx context.Context, runID string) ([]domain.Recommendation, error)

	// Alert history
	InsertAlertRecord(ctx context.Context, rec *domain.AlertRecord) error
	ListAlertHistory(ctx context.Context, limit int) ([]domain.AlertRecord, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
