package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricing-engine/internal/model"
	"github.com/donaldgifford/pricing-engine/internal/notify"
	"github.com/donaldgifford/pricing-engine/pkg/pricing"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// linearSales builds weekday sales rows with units = intercept + slope*price.
func linearSales(productID string, prices []float64, intercept, slope float64) []domain.SalesRecord {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	out := make([]domain.SalesRecord, 0, len(prices))
	for i, p := range prices {
		out = append(out, domain.SalesRecord{
			Date:        day.AddDate(0, 0, -i*7), // stay on weekdays
			ProductID:   productID,
			UnitsSold:   int(intercept + slope*p),
			PriceAtSale: p,
		})
	}
	return out
}

// testDataset is one product with cost 10, price 20, healthy inventory, and
// a clean linear demand history (units = 80 - 2*price).
func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Products: []domain.Product{
			{ID: "P1", Name: "Widget", UnitCost: 10, CurrentPrice: 20},
		},
		Sales: linearSales("P1", []float64{12, 14, 16, 18, 20}, 80, -2),
		Inventory: []domain.InventoryRecord{
			{ProductID: "P1", OnHand: 15, ReorderPoint: 10},
		},
	}
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	artifacts := model.NewArtifactStore(t.TempDir())
	trainer := model.NewTrainer(artifacts, model.WithLogger(discardLogger()))
	opts = append([]EngineOption{WithLogger(discardLogger())}, opts...)
	return NewEngine(artifacts, trainer, opts...)
}

func TestRecommend_FallbackOptimizesWithinBand(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	recs, err := eng.Recommend(context.Background(), testDataset())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Profit (80-2p)(p-10) peaks at p=25, inside the [14, 26] band.
	rec := recs[0]
	assert.Equal(t, 25.0, rec.RecommendedPrice)
	assert.InDelta(t, 50.0, rec.ExpectedProfitDelta, 1e-9)
	assert.Nil(t, rec.CompetitorMedian)
	assert.Contains(t, rec.Notes, noteNoCompetitor)
}

func TestRecommend_ThinHistoryKeepsCurrentPrice(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	ds := testDataset()
	ds.Sales = ds.Sales[:3]

	recs, err := eng.Recommend(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, 20.0, recs[0].RecommendedPrice)
	assert.Zero(t, recs[0].ExpectedProfitDelta)
	assert.Equal(t, noteNoHistory, recs[0].Notes)
}

func TestRecommend_CompetitorNarrowsBand(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	ds := testDataset()
	ref := ds.ReferenceDate()
	ds.Competitors = []domain.CompetitorQuote{
		{Date: ref.AddDate(0, 0, -1), ProductID: "P1", Price: 20},
	}

	recs, err := eng.Recommend(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// The unconstrained optimum (25) is cut off by the ±15% competitor
	// band, so the best feasible price is its ceiling.
	rec := recs[0]
	require.NotNil(t, rec.CompetitorMedian)
	assert.Equal(t, 20.0, *rec.CompetitorMedian)
	assert.Equal(t, 23.0, rec.RecommendedPrice)
	assert.Contains(t, rec.Notes, "Competitor median ≈ 20.00")
}

func TestRecommend_TrainedArtifactOverridesFallback(t *testing.T) {
	t.Parallel()

	artifacts := model.NewArtifactStore(t.TempDir())
	trainer := model.NewTrainer(artifacts, model.WithLogger(discardLogger()))
	eng := NewEngine(artifacts, trainer, WithLogger(discardLogger()))

	// A much steeper trained curve moves the optimum to the band floor.
	require.NoError(t, artifacts.Save(&pricing.ElasticityModel{
		ProductID: "P1",
		Intercept: 100,
		PriceCoef: -6,
	}))

	recs, err := eng.Recommend(context.Background(), testDataset())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 14.0, recs[0].RecommendedPrice)
}

func TestRecommend_LowInventoryGuardrail(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	ds := testDataset()
	ds.Inventory[0] = domain.InventoryRecord{ProductID: "P1", OnHand: 5, ReorderPoint: 10}

	recs, err := eng.Recommend(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// 25 * 1.03 = 25.75, still inside the band.
	assert.Equal(t, 25.75, recs[0].RecommendedPrice)
	assert.Contains(t, recs[0].Notes, "Low inventory")
}

func TestRecommend_SortedByProfitDeltaDescending(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	ds := testDataset()
	ds.Products = append(ds.Products, domain.Product{
		ID: "P2", Name: "Gadget", UnitCost: 5, CurrentPrice: 12,
	})
	// P2 has too little history: delta 0, so it sorts after P1.
	ds.Sales = append(ds.Sales, linearSales("P2", []float64{12, 12}, 30, -1)...)

	recs, err := eng.Recommend(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "P1", recs[0].ProductID)
	assert.Equal(t, "P2", recs[1].ProductID)
	assert.GreaterOrEqual(t, recs[0].ExpectedProfitDelta, recs[1].ExpectedProfitDelta)
}

func TestRecommend_Deterministic(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	a, err := eng.Recommend(context.Background(), testDataset())
	require.NoError(t, err)
	b, err := eng.Recommend(context.Background(), testDataset())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRecommend_ContextCancellation(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Recommend(ctx, testDataset())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAlertReason(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, WithAlertThresholds(0.10, 50))

	tests := []struct {
		name string
		rec  domain.Recommendation
		want string
	}{
		{
			name: "no alert",
			rec:  domain.Recommendation{CurrentPrice: 20, RecommendedPrice: 20.5, ExpectedProfitDelta: 5},
			want: "",
		},
		{
			name: "big move only",
			rec:  domain.Recommendation{CurrentPrice: 20, RecommendedPrice: 25, ExpectedProfitDelta: 5},
			want: "price move ≥ 10%",
		},
		{
			name: "big delta only",
			rec:  domain.Recommendation{CurrentPrice: 20, RecommendedPrice: 20.5, ExpectedProfitDelta: 80},
			want: "profit delta ≥ $50.00",
		},
		{
			name: "both",
			rec:  domain.Recommendation{CurrentPrice: 20, RecommendedPrice: 25, ExpectedProfitDelta: 80},
			want: "price move ≥ 10% and profit delta ≥ $50.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, eng.alertReason(&tt.rec))
		})
	}
}

// captureNotifier records batches and optionally fails.
type captureNotifier struct {
	batches [][]notify.AlertPayload
	err     error
}

func (c *captureNotifier) SendAlert(_ context.Context, a *notify.AlertPayload) error {
	c.batches = append(c.batches, []notify.AlertPayload{*a})
	return c.err
}

func (c *captureNotifier) SendBatchAlert(_ context.Context, alerts []notify.AlertPayload) error {
	c.batches = append(c.batches, alerts)
	return c.err
}

func TestRunPass_CSVOnly(t *testing.T) {
	t.Parallel()

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	notifier := &captureNotifier{}
	eng := newTestEngine(t,
		WithOutputCSV(csvPath),
		WithNotifier(notifier),
		WithAlertThresholds(0.10, 10),
	)

	result, err := eng.RunPass(context.Background(), testDataset())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Recommendations, 1)
	assert.Equal(t, csvPath, result.CSVPath)
	assert.Equal(t, 1, result.AlertsFired)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "P1")

	require.Len(t, notifier.batches, 1)
	assert.Equal(t, "P1", notifier.batches[0][0].ProductID)
}

func TestRunPass_PersistsRunAndAlerts(t *testing.T) {
	t.Parallel()

	st := &fakeStore{}
	notifier := &captureNotifier{}
	eng := newTestEngine(t,
		WithStore(st),
		WithNotifier(notifier),
		WithAlertThresholds(0.10, 10),
	)

	result, err := eng.RunPass(context.Background(), testDataset())
	require.NoError(t, err)

	assert.Equal(t, result.RunID, st.createdRunID)
	assert.Equal(t, result.RunID, st.completedRunID)
	assert.Equal(t, 1, st.completedProducts)
	assert.Equal(t, 1, st.completedAlerts)
	assert.Len(t, st.inserted[result.RunID], 1)

	require.Len(t, st.alertRecords, 1)
	assert.True(t, st.alertRecords[0].Succeeded)
	assert.Empty(t, st.alertRecords[0].ErrorText)
	assert.Empty(t, result.CSVPath)
}

func TestRunPass_NotifierFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	st := &fakeStore{}
	notifier := &captureNotifier{err: errors.New("webhook down")}
	eng := newTestEngine(t,
		WithStore(st),
		WithNotifier(notifier),
		WithAlertThresholds(0.10, 10),
	)

	result, err := eng.RunPass(context.Background(), testDataset())
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsFired)

	require.Len(t, st.alertRecords, 1)
	assert.False(t, st.alertRecords[0].Succeeded)
	assert.Contains(t, st.alertRecords[0].ErrorText, "webhook down")
}

func TestRunPass_StoreFailureAborts(t *testing.T) {
	t.Parallel()

	st := &fakeStore{createErr: errors.New("db down")}
	eng := newTestEngine(t, WithStore(st))

	_, err := eng.RunPass(context.Background(), testDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating run")
}

func TestTrain_DelegatesToTrainer(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)

	// 40 rows of clean linear demand is enough to train one model.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 10 + float64(i%8)
	}
	sales := linearSales("P1", prices, 90, -3)

	scores, err := eng.Train(context.Background(), sales)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "P1", scores[0].ProductID)
	assert.Equal(t, 40, scores[0].Samples)
}
