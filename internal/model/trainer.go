package model

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

const (
	// MinTrainingRows is the history size below which a product is
	// silently excluded from training.
	MinTrainingRows = 30

	defaultAlpha = 1.0
	testFraction = 0.2
	splitSeed    = 42
)

// Trainer fits and persists per-product elasticity models from sales
// history. Products with fewer than MinTrainingRows rows are skipped
// without error; their next recommendation pass keeps the fallback model.
type Trainer struct {
	artifacts *ArtifactStore
	alpha     float64
	minRows   int
	log       *slog.Logger
}

// NewTrainer creates a Trainer writing artifacts to the given store.
func NewTrainer(artifacts *ArtifactStore, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		artifacts: artifacts,
		alpha:     defaultAlpha,
		minRows:   MinTrainingRows,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TrainerOption configures the Trainer.
type TrainerOption func(*Trainer)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) TrainerOption {
	return func(t *Trainer) {
		t.log = l
	}
}

// WithAlpha sets the ridge penalty.
func WithAlpha(alpha float64) TrainerOption {
	return func(t *Trainer) {
		t.alpha = alpha
	}
}

// WithMinRows sets the minimum history size required for training.
func WithMinRows(n int) TrainerOption {
	return func(t *Trainer) {
		t.minRows = n
	}
}

// Train fits a model for every product with sufficient history and persists
// each artifact. It returns held-out validation scores sorted by product id.
// Per-product fit failures are logged and skipped; they do not abort the run.
func (t *Trainer) Train(ctx context.Context, sales []domain.SalesRecord) ([]domain.TrainingScore, error) {
	grouped := make(map[string][]domain.SalesRecord)
	for i := range sales {
		pid := sales[i].ProductID
		grouped[pid] = append(grouped[pid], sales[i])
	}

	ids := make([]string, 0, len(grouped))
	for pid := range grouped {
		ids = append(ids, pid)
	}
	sort.Strings(ids)

	var scores []domain.TrainingScore
	for _, pid := range ids {
		if err := ctx.Err(); err != nil {
			return scores, err
		}

		rows := grouped[pid]
		if len(rows) < t.minRows {
			continue
		}

		score, err := t.trainProduct(pid, rows)
		if err != nil {
			t.log.Error("training failed", "product_id", pid, "error", err)
			continue
		}

		scores = append(scores, *score)
		t.log.Info("model trained",
			"product_id", pid,
			"samples", score.Samples,
			"r2", score.R2,
		)
	}

	return scores, nil
}

func (t *Trainer) trainProduct(pid string, sales []domain.SalesRecord) (*domain.TrainingScore, error) {
	features, y := toFeatures(sales)

	trainX, trainY, testX, testY := split(features, y)

	m, err := fitRidge(trainX, trainY, t.alpha)
	if err != nil {
		return nil, err
	}
	m.ProductID = pid
	m.R2 = rSquared(m, testX, testY)
	m.Samples = len(sales)

	if err := t.artifacts.Save(m); err != nil {
		return nil, fmt.Errorf("persisting model: %w", err)
	}

	return &domain.TrainingScore{
		ProductID: pid,
		R2:        m.R2,
		Samples:   len(sales),
	}, nil
}

// split shuffles deterministically and holds out the trailing test fraction,
// so repeated training over the same history reproduces the same scores.
func split(rows []featureRow, y []float64) (trainX []featureRow, trainY []float64, testX []featureRow, testY []float64) {
	n := len(rows)
	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)

	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	cut := n - nTest

	for i, idx := range perm {
		if i < cut {
			trainX = append(trainX, rows[idx])
			trainY = append(trainY, y[idx])
		} else {
			testX = append(testX, rows[idx])
			testY = append(testY, y[idx])
		}
	}
	return trainX, trainY, testX, testY
}
