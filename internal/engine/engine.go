// Package engine implements the core business loops: the per-product
// recommendation pass, the training pass, alert evaluation, and the
// scheduler that drives both.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/pricing-engine/internal/dataset"
	"github.com/donaldgifford/pricing-engine/internal/metrics"
	"github.com/donaldgifford/pricing-engine/internal/model"
	"github.com/donaldgifford/pricing-engine/internal/notify"
	"github.com/donaldgifford/pricing-engine/internal/store"
	"github.com/donaldgifford/pricing-engine/pkg/pricing"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// Recommendation notes composed by the orchestrator.
const (
	noteNoHistory    = "Not enough sales history; keep current price."
	noteNoCompetitor = "No recent competitor price; used safety band."
	noteDefault      = "Maximized expected profit under guardrails."
)

// Engine orchestrates demand estimation, candidate generation, profit
// optimization, guardrail adjustment, persistence, and alerting.
type Engine struct {
	artifacts *model.ArtifactStore
	trainer   *model.Trainer
	store     store.Store // nil in CSV-only mode
	notifier  notify.Notifier
	log       *slog.Logger

	minHistoryRows   int
	competitorWindow time.Duration
	outputCSV        string // empty disables the CSV report

	alertPriceMovePct   float64
	alertMinProfitDelta float64
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(artifacts *model.ArtifactStore, trainer *model.Trainer, opts ...EngineOption) *Engine {
	eng := &Engine{
		artifacts:           artifacts,
		trainer:             trainer,
		notifier:            notify.NewNoOpNotifier(slog.Default()),
		log:                 slog.Default(),
		minHistoryRows:      pricing.MinHistoryRows,
		competitorWindow:    pricing.CompetitorWindow,
		alertPriceMovePct:   0.10,
		alertMinProfitDelta: 50.0,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithStore enables persistence of runs, rows, and alert history.
func WithStore(s store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithNotifier sets the alert delivery backend.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithMinHistoryRows sets the history size below which a product keeps
// its current price.
func WithMinHistoryRows(n int) EngineOption {
	return func(e *Engine) {
		e.minHistoryRows = n
	}
}

// WithCompetitorWindow sets the trailing window for recent competitor quotes.
func WithCompetitorWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.competitorWindow = d
	}
}

// WithOutputCSV writes each pass's rows to the given path.
func WithOutputCSV(path string) EngineOption {
	return func(e *Engine) {
		e.outputCSV = path
	}
}

// WithAlertThresholds sets when a recommendation row becomes alert-worthy.
func WithAlertThresholds(priceMovePct, minProfitDelta float64) EngineOption {
	return func(e *Engine) {
		e.alertPriceMovePct = priceMovePct
		e.alertMinProfitDelta = minProfitDelta
	}
}

// Recommend runs a full recommendation pass over an input snapshot and
// returns rows sorted by expected profit delta descending. Identical
// inputs and artifact state always reproduce the same rows.
func (eng *Engine) Recommend(ctx context.Context, ds *domain.Dataset) ([]domain.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	}()

	ref := ds.ReferenceDate()

	inventory := make(map[string]domain.InventoryRecord, len(ds.Inventory))
	for i := range ds.Inventory {
		inventory[ds.Inventory[i].ProductID] = ds.Inventory[i]
	}

	recs := make([]domain.Recommendation, 0, len(ds.Products))
	for i := range ds.Products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs = append(recs, eng.recommendProduct(&ds.Products[i], ds, inventory, ref))
	}

	// Highest expected improvement first; stable so equal deltas keep
	// catalog order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpectedProfitDelta > recs[j].ExpectedProfitDelta
	})

	metrics.RecommendationsTotal.Add(float64(len(recs)))

	return recs, nil
}

func (eng *Engine) recommendProduct(
	p *domain.Product,
	ds *domain.Dataset,
	inventory map[string]domain.InventoryRecord,
	ref time.Time,
) domain.Recommendation {
	inv := inventory[p.ID] // zero value covers the missing-row default

	rec := domain.Recommendation{
		ProductID:    p.ID,
		Name:         p.Name,
		CurrentPrice: p.CurrentPrice,
		UnitCost:     p.UnitCost,
		OnHand:       inv.OnHand,
		ReorderPoint: inv.ReorderPoint,
	}

	sales := ds.SalesFor(p.ID)
	if len(sales) < eng.minHistoryRows {
		rec.RecommendedPrice = p.CurrentPrice
		rec.ExpectedProfitDelta = 0.0
		rec.Notes = noteNoHistory
		metrics.RecommendationNoOpsTotal.Inc()
		return rec
	}

	units := eng.selectEstimator(p.ID, sales)

	compMedian := pricing.CompetitorMedian(ds.Competitors, p.ID, ref, eng.competitorWindow)
	rec.CompetitorMedian = compMedian

	candidates := pricing.Candidates(p.UnitCost, p.CurrentPrice, compMedian)

	bestPrice, bestProfit := pricing.Optimize(candidates, p.UnitCost, units)
	rec.ExpectedProfitDelta = pricing.ExpectedDelta(units, bestProfit, p.CurrentPrice, p.UnitCost)
	metrics.ProfitDeltaDistribution.Observe(rec.ExpectedProfitDelta)

	adjusted, invNote := pricing.AdjustForInventory(bestPrice, inv.OnHand, inv.ReorderPoint, candidates)
	rec.RecommendedPrice = adjusted

	var notes []string
	if invNote != "" {
		notes = append(notes, invNote)
	}
	if compMedian == nil {
		notes = append(notes, noteNoCompetitor)
	} else {
		notes = append(notes, fmt.Sprintf("Competitor median ≈ %.2f (±15%% band).", *compMedian))
	}
	rec.Notes = joinNotes(notes)

	return rec
}

// selectEstimator picks the trained elasticity model when an artifact
// exists for the product, otherwise fits the per-run fallback. The choice
// is purely a capability check, never a quality comparison.
func (eng *Engine) selectEstimator(productID string, sales []domain.SalesRecord) pricing.UnitsFn {
	trained, err := eng.artifacts.Load(productID)
	if err != nil {
		eng.log.Warn("trained artifact unreadable, using fallback",
			"product_id", productID, "error", err)
	}
	if trained != nil {
		metrics.TrainedModelUsedTotal.Inc()
		return trained.UnitsFn()
	}

	fallback, err := pricing.FitLinearFallback(sales)
	if err != nil {
		// Callers guarantee the history minimum, so this only fires if
		// the threshold was configured below pricing.MinHistoryRows.
		eng.log.Warn("fallback fit failed, predicting zero demand",
			"product_id", productID, "error", err)
		return func(float64) float64 { return 0 }
	}
	metrics.FallbackModelUsedTotal.Inc()
	return fallback.UnitsFn()
}

func joinNotes(notes []string) string {
	if len(notes) == 0 {
		return noteDefault
	}
	out := notes[0]
	for _, n := range notes[1:] {
		out += " " + n
	}
	return out
}

// PassResult summarizes one completed recommendation pass.
type PassResult struct {
	RunID           string
	Recommendations []domain.Recommendation
	AlertsFired     int
	CSVPath         string
}

// RunPass executes a recommendation pass end to end: compute rows, write
// the CSV report, persist the run when a store is configured, and dispatch
// alerts. Alert delivery failures are logged and recorded but never
// propagate to the caller.
func (eng *Engine) RunPass(ctx context.Context, ds *domain.Dataset) (*PassResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()

	if eng.store != nil {
		if err := eng.store.CreateRun(ctx, runID, startedAt); err != nil {
			return nil, fmt.Errorf("creating run: %w", err)
		}
	}

	recs, err := eng.Recommend(ctx, ds)
	if err != nil {
		return nil, err
	}

	result := &PassResult{
		RunID:           runID,
		Recommendations: recs,
	}

	if eng.outputCSV != "" {
		if err := dataset.WriteRecommendationsCSV(eng.outputCSV, recs); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
		result.CSVPath = eng.outputCSV
	}

	result.AlertsFired = eng.processAlerts(ctx, runID, recs)

	if eng.store != nil {
		if err := eng.store.InsertRecommendations(ctx, runID, recs); err != nil {
			return nil, fmt.Errorf("persisting recommendations: %w", err)
		}
		if err := eng.store.CompleteRun(ctx, runID, time.Now().UTC(), len(recs), result.AlertsFired); err != nil {
			return nil, fmt.Errorf("completing run: %w", err)
		}
	}

	eng.log.Info("recommendation pass complete",
		"run_id", runID,
		"products", len(recs),
		"alerts_fired", result.AlertsFired,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)

	return result, nil
}

// Train runs the offline trainer over the sales table, writing one artifact
// per product with sufficient history.
func (eng *Engine) Train(ctx context.Context, sales []domain.SalesRecord) ([]domain.TrainingScore, error) {
	start := time.Now()
	defer func() {
		metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	}()

	scores, err := eng.trainer.Train(ctx, sales)
	if err != nil {
		return nil, fmt.Errorf("training models: %w", err)
	}

	metrics.ModelsTrainedTotal.Add(float64(len(scores)))
	eng.log.Info("training pass complete", "models_trained", len(scores))

	return scores, nil
}
