package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/donaldgifford/pricing-engine/internal/metrics"
	"github.com/donaldgifford/pricing-engine/internal/notify"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// evaluateAlerts returns the payloads for all alert-worthy rows: a large
// relative price move or a large expected profit improvement.
func (eng *Engine) evaluateAlerts(recs []domain.Recommendation) []notify.AlertPayload {
	var out []notify.AlertPayload
	for i := range recs {
		reason := eng.alertReason(&recs[i])
		if reason == "" {
			continue
		}
		out = append(out, notify.AlertPayload{
			ProductID:        recs[i].ProductID,
			Name:             recs[i].Name,
			CurrentPrice:     recs[i].CurrentPrice,
			RecommendedPrice: recs[i].RecommendedPrice,
			ProfitDelta:      recs[i].ExpectedProfitDelta,
			Reason:           reason,
		})
	}
	return out
}

func (eng *Engine) alertReason(r *domain.Recommendation) string {
	bigMove := r.PriceMovePct() >= eng.alertPriceMovePct
	bigDelta := r.ExpectedProfitDelta >= eng.alertMinProfitDelta

	switch {
	case bigMove && bigDelta:
		return fmt.Sprintf("price move ≥ %.0f%% and profit delta ≥ $%.2f",
			eng.alertPriceMovePct*100, eng.alertMinProfitDelta)
	case bigMove:
		return fmt.Sprintf("price move ≥ %.0f%%", eng.alertPriceMovePct*100)
	case bigDelta:
		return fmt.Sprintf("profit delta ≥ $%.2f", eng.alertMinProfitDelta)
	default:
		return ""
	}
}

// processAlerts evaluates and dispatches alerts for one pass. Delivery is
// fire-and-forget: a failed send is logged, counted, and recorded in alert
// history, but the pass itself always succeeds.
func (eng *Engine) processAlerts(ctx context.Context, runID string, recs []domain.Recommendation) int {
	payloads := eng.evaluateAlerts(recs)
	if len(payloads) == 0 {
		return 0
	}

	sendErr := eng.notifier.SendBatchAlert(ctx, payloads)
	if sendErr != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Error("alert delivery failed", "run_id", runID, "count", len(payloads), "error", sendErr)
	} else {
		metrics.AlertsFiredTotal.Add(float64(len(payloads)))
	}

	eng.recordAlerts(ctx, runID, payloads, sendErr)

	return len(payloads)
}

func (eng *Engine) recordAlerts(ctx context.Context, runID string, payloads []notify.AlertPayload, sendErr error) {
	if eng.store == nil {
		return
	}

	errText := ""
	if sendErr != nil {
		errText = sendErr.Error()
	}

	sentAt := time.Now().UTC()
	for i := range payloads {
		rec := &domain.AlertRecord{
			RunID:     runID,
			ProductID: payloads[i].ProductID,
			Reason:    payloads[i].Reason,
			Succeeded: sendErr == nil,
			ErrorText: errText,
			SentAt:    sentAt,
		}
		if err := eng.store.InsertAlertRecord(ctx, rec); err != nil {
			eng.log.Error("recording alert failed", "product_id", payloads[i].ProductID, "error", err)
		}
	}
}
