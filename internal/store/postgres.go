package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateRun records the start of a recommendation run.
func (s *PostgresStore) CreateRun(ctx context.Context, id string, startedAt time.Time) error {
	args := pgx.NamedArgs{
		"id":         id,
		"started_at": startedAt,
	}
	if _, err := s.pool.Exec(ctx, queryCreateRun, args); err != nil {
		return fmt.Errorf("creating run %s: %w", id, err)
	}
	return nil
}

// CompleteRun finalizes a run with its product and alert counts.
func (s *PostgresStore) CompleteRun(
	ctx context.Context,
	id string,
	finishedAt time.Time,
	products, alertsFired int,
) error {
	args := pgx.NamedArgs{
		"id":           id,
		"finished_at":  finishedAt,
		"products":     products,
		"alerts_fired": alertsFired,
	}
	if _, err := s.pool.Exec(ctx, queryCompleteRun, args); err != nil {
		return fmt.Errorf("completing run %s: %w", id, err)
	}
	return nil
}

// GetRun retrieves one run summary by id. Returns (nil, nil) when the run
// does not exist.
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*domain.RunSummary, error) {
	return scanRun(s.pool.QueryRow(ctx, queryGetRun, id))
}

// LatestRun retrieves the most recently finished run. Returns (nil, nil)
// when no run has completed yet.
func (s *PostgresStore) LatestRun(ctx context.Context) (*domain.RunSummary, error) {
	return scanRun(s.pool.QueryRow(ctx, queryLatestRun))
}

// ListRuns retrieves recent run summaries, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.pool.Query(ctx, queryListRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Products, &r.AlertsFired); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertRecommendations persists all rows of one run in a single batch.
func (s *PostgresStore) InsertRecommendations(
	ctx context.Context,
	runID string,
	recs []domain.Recommendation,
) error {
	batch := &pgx.Batch{}
	for i := range recs {
		batch.Queue(queryInsertRecommendation, pgx.NamedArgs{
			"run_id":                  runID,
			"product_id":              recs[i].ProductID,
			"name":                    recs[i].Name,
			"current_price":           recs[i].CurrentPrice,
			"recommended_price":       recs[i].RecommendedPrice,
			"unit_cost":               recs[i].UnitCost,
			"competitor_median_price": recs[i].CompetitorMedian,
			"inventory_on_hand":       recs[i].OnHand,
			"reorder_point":           recs[i].ReorderPoint,
			"expected_profit_delta":   recs[i].ExpectedProfitDelta,
			"notes":                   recs[i].Notes,
		})
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting recommendations for run %s: %w", runID, err)
		}
	}
	return nil
}

// ListRecommendations retrieves the rows of one run, sorted by expected
// profit delta descending.
func (s *PostgresStore) ListRecommendations(
	ctx context.Context,
	runID string,
) ([]domain.Recommendation, error) {
	rows, err := s.pool.Query(ctx, queryListRecommendations, runID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	defer rows.Close()

	var out []domain.Recommendation
	for rows.Next() {
		var r domain.Recommendation
		if err := rows.Scan(
			&r.ProductID, &r.Name, &r.CurrentPrice, &r.RecommendedPrice,
			&r.UnitCost, &r.CompetitorMedian, &r.OnHand,
			&r.ReorderPoint, &r.ExpectedProfitDelta, &r.Notes,
		); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertAlertRecord records one alert delivery attempt.
func (s *PostgresStore) InsertAlertRecord(ctx context.Context, rec *domain.AlertRecord) error {
	args := pgx.NamedArgs{
		"run_id":     rec.RunID,
		"product_id": rec.ProductID,
		"reason":     rec.Reason,
		"succeeded":  rec.Succeeded,
		"error_text": rec.ErrorText,
		"sent_at":    rec.SentAt,
	}
	if err := s.pool.QueryRow(ctx, queryInsertAlertRecord, args).Scan(&rec.ID); err != nil {
		return fmt.Errorf("inserting alert record: %w", err)
	}
	return nil
}

// ListAlertHistory retrieves recent alert delivery attempts, newest first.
func (s *PostgresStore) ListAlertHistory(ctx context.Context, limit int) ([]domain.AlertRecord, error) {
	rows, err := s.pool.Query(ctx, queryListAlertHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("listing alert history: %w", err)
	}
	defer rows.Close()

	var out []domain.AlertRecord
	for rows.Next() {
		var r domain.AlertRecord
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.ProductID, &r.Reason,
			&r.Succeeded, &r.ErrorText, &r.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scanning alert record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*domain.RunSummary, error) {
	r := &domain.RunSummary{}
	err := row.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Products, &r.AlertsFired)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return r, nil
}
