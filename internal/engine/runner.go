package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/donaldgifford/pricing-engine/internal/dataset"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// Runner binds the engine to an on-disk data directory. Each invocation
// re-reads the CSV snapshot so edits to the directory are picked up
// without a restart.
type Runner struct {
	eng     *Engine
	dataDir string
}

// NewRunner creates a Runner over the given data directory.
func NewRunner(eng *Engine, dataDir string) *Runner {
	return &Runner{eng: eng, dataDir: dataDir}
}

// RunRecommendationPass loads the dataset and executes a full pass.
func (r *Runner) RunRecommendationPass(ctx context.Context) (*PassResult, error) {
	ds, err := dataset.Load(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return r.eng.RunPass(ctx, ds)
}

// RunTraining loads the sales table and retrains per-product models.
func (r *Runner) RunTraining(ctx context.Context) ([]domain.TrainingScore, error) {
	sales, err := dataset.LoadSales(filepath.Join(r.dataDir, dataset.SalesFile))
	if err != nil {
		return nil, fmt.Errorf("loading sales: %w", err)
	}
	return r.eng.Train(ctx, sales)
}
