// Package notify defines the notification interface and implementations
// for pricing alert delivery. Delivery is a boundary concern: senders may
// fail, and callers are expected to log and discard those failures rather
// than let them abort a recommendation pass.
package notify

import (
	"context"
	"fmt"
)

// AlertPayload contains the data needed to send one pricing alert.
type AlertPayload struct {
	ProductID        string
	Name             string
	CurrentPrice     float64
	RecommendedPrice float64
	ProfitDelta      float64
	Reason           string
}

// Line renders the payload as a one-line alert summary.
func (a *AlertPayload) Line() string {
	label := a.Name
	if label == "" {
		label = a.ProductID
	}
	return fmt.Sprintf("%s: $%.2f → $%.2f (Δprofit $%.2f)",
		label, a.CurrentPrice, a.RecommendedPrice, a.ProfitDelta)
}

// Notifier defines the interface for sending pricing alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload) error
}
