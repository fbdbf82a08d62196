//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/pricing-engine/internal/store"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pricing_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

// completedRun creates and completes one run with n recommendation rows.
func completedRun(t *testing.T, s *store.PostgresStore, n int) (string, []domain.Recommendation) {
	t.Helper()
	ctx := context.Background()

	runID := uuid.NewString()
	startedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, s.CreateRun(ctx, runID, startedAt))

	median := 4.35
	recs := make([]domain.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, domain.Recommendation{
			ProductID:           uuid.NewString()[:8],
			Name:                "Latte",
			CurrentPrice:        4.50,
			RecommendedPrice:    4.95,
			UnitCost:            1.20,
			CompetitorMedian:    &median,
			OnHand:              40,
			ReorderPoint:        15,
			ExpectedProfitDelta: float64(100 - i),
			Notes:               "Competitor median ≈ 4.35 (±15% band).",
		})
	}
	require.NoError(t, s.InsertRecommendations(ctx, runID, recs))
	require.NoError(t, s.CompleteRun(ctx, runID, startedAt.Add(time.Second), n, 1))

	return runID, recs
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	// Migrations already ran in setup; a second pass must be a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_RunLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "fresh database has no completed run")

	runID, _ := completedRun(t, s, 2)

	got, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, runID, got.ID)
	assert.Equal(t, 2, got.Products)
	assert.Equal(t, 1, got.AlertsFired)

	latest, err = s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, runID, latest.ID)

	missing, err := s.GetRun(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	first, _ := completedRun(t, s, 1)
	second, _ := completedRun(t, s, 1)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPostgresStore_Recommendations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	runID, inserted := completedRun(t, s, 3)

	got, err := s.ListRecommendations(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Sorted by expected profit delta descending.
	assert.Equal(t, 100.0, got[0].ExpectedProfitDelta)
	assert.Equal(t, 98.0, got[2].ExpectedProfitDelta)

	require.NotNil(t, got[0].CompetitorMedian)
	assert.InDelta(t, *inserted[0].CompetitorMedian, *got[0].CompetitorMedian, 1e-9)
	assert.Equal(t, inserted[0].Notes, got[0].Notes)

	empty, err := s.ListRecommendations(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgresStore_AlertHistory(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	runID, recs := completedRun(t, s, 1)

	rec := &domain.AlertRecord{
		RunID:     runID,
		ProductID: recs[0].ProductID,
		Reason:    "price move ≥ 10%",
		Succeeded: false,
		ErrorText: "webhook down",
		SentAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.InsertAlertRecord(ctx, rec))
	assert.NotEmpty(t, rec.ID, "insert backfills the generated id")

	history, err := s.ListAlertHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.Equal(t, "webhook down", history[0].ErrorText)
	assert.False(t, history[0].Succeeded)
}
