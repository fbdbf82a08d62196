package cmd

import (
	"log/slog"
	"time"

	"github.com/donaldgifford/pricing-engine/internal/config"
	"github.com/donaldgifford/pricing-engine/internal/engine"
	"github.com/donaldgifford/pricing-engine/internal/model"
	"github.com/donaldgifford/pricing-engine/internal/notify"
	"github.com/donaldgifford/pricing-engine/internal/store"
)

// buildNotifier assembles the configured alert targets. With nothing
// enabled alerts go to a NoOp notifier that only logs.
func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	var targets notify.Fanout

	if cfg.Notifications.Slack.Enabled {
		targets = append(targets, notify.NewSlackNotifier(
			cfg.Notifications.Slack.WebhookURL,
			notify.WithRateLimit(
				cfg.Notifications.Slack.PerSecond,
				cfg.Notifications.Slack.Burst,
			),
		))
	}

	if cfg.Notifications.Email.Enabled {
		em := cfg.Notifications.Email
		targets = append(targets, notify.NewEmailNotifier(
			em.Host, em.Port, em.Username, em.Password, em.From, em.To,
		))
	}

	switch len(targets) {
	case 0:
		return notify.NewNoOpNotifier(log)
	case 1:
		return targets[0]
	default:
		return targets
	}
}

// buildEngine wires the recommendation engine from config. The store is
// optional; nil means CSV-only operation.
func buildEngine(cfg *config.Config, log *slog.Logger, st store.Store) *engine.Engine {
	artifacts := model.NewArtifactStore(cfg.Models.Dir)
	trainer := model.NewTrainer(artifacts,
		model.WithLogger(log),
		model.WithMinRows(cfg.Pricing.MinTrainingRows),
	)

	opts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithNotifier(buildNotifier(cfg, log)),
		engine.WithOutputCSV(cfg.Data.OutputCSV),
		engine.WithMinHistoryRows(cfg.Pricing.MinHistoryRows),
		engine.WithCompetitorWindow(time.Duration(cfg.Pricing.CompetitorDays) * 24 * time.Hour),
		engine.WithAlertThresholds(cfg.Alerts.PriceMovePct, cfg.Alerts.MinProfitDelta),
	}
	if st != nil {
		opts = append(opts, engine.WithStore(st))
	}

	return engine.NewEngine(artifacts, trainer, opts...)
}
