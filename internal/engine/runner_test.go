package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricing-engine/internal/dataset"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		dataset.ProductsFile: "product_id,name,unit_cost,current_price\n" +
			"P1,Widget,10.00,20.00\n",
		dataset.SalesFile: "date,product_id,units_sold,price_at_sale,promo_flag\n" +
			"2026-03-02,P1,56,12.00,0\n" +
			"2026-03-03,P1,52,14.00,0\n" +
			"2026-03-04,P1,48,16.00,0\n" +
			"2026-03-05,P1,44,18.00,0\n" +
			"2026-03-06,P1,40,20.00,0\n",
		dataset.InventoryFile: "product_id,on_hand,reorder_point\n" +
			"P1,15,10\n",
		dataset.CompetitorsFile: "date,product_id,competitor_price\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestRunner_RunRecommendationPass(t *testing.T) {
	t.Parallel()

	runner := NewRunner(newTestEngine(t), writeDataDir(t))

	result, err := runner.RunRecommendationPass(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "P1", result.Recommendations[0].ProductID)
	assert.Equal(t, 25.0, result.Recommendations[0].RecommendedPrice)
}

func TestRunner_RunRecommendationPass_MissingData(t *testing.T) {
	t.Parallel()

	runner := NewRunner(newTestEngine(t), filepath.Join(t.TempDir(), "nope"))

	_, err := runner.RunRecommendationPass(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading dataset")
}

func TestRunner_RunTraining(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	runner := NewRunner(eng, writeDataDir(t))

	// Only 5 sales rows: below the training minimum, so no models.
	scores, err := runner.RunTraining(context.Background())
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestScheduler_RegistersBothJobs(t *testing.T) {
	t.Parallel()

	runner := NewRunner(newTestEngine(t), writeDataDir(t))

	sched, err := NewScheduler(runner, time.Hour, 24*time.Hour, discardLogger())
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 2)

	sched.Start()
	ctx := sched.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
