package notify

import (
	"context"
	"errors"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAlert logs and discards a single alert.
func (n *NoOpNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"product_id", alert.ProductID,
		"profit_delta", alert.ProfitDelta,
	)
	return nil
}

// SendBatchAlert logs and discards a batch of alerts.
func (n *NoOpNotifier) SendBatchAlert(_ context.Context, alerts []AlertPayload) error {
	n.log.Debug("batch notification discarded (no backend configured)",
		"count", len(alerts),
	)
	return nil
}

// Fanout implements Notifier over several backends, trying each one and
// joining their send results. A batch still reaches email when Slack is
// down, and vice versa.
type Fanout []Notifier

// SendAlert delivers the alert to every backend.
func (f Fanout) SendAlert(ctx context.Context, alert *AlertPayload) error {
	var errs []error
	for _, n := range f {
		if err := n.SendAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendBatchAlert delivers the batch to every backend.
func (f Fanout) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	var errs []error
	for _, n := range f {
		if err := n.SendBatchAlert(ctx, alerts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
