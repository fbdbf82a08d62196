package main

import "errors"

// KnownMetrics is the set of metric names exported by pricing-engine
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pricing_http_request_duration_seconds": true,
	"pricing_http_requests_total":           true,

	// Health metrics.
	"pricing_healthz_up": true,
	"pricing_readyz_up":  true,

	// Recommendation pass metrics.
	"pricing_recommendation_duration_seconds": true,
	"pricing_recommendations_total":           true,
	"pricing_recommendation_noops_total":      true,
	"pricing_trained_model_used_total":        true,
	"pricing_fallback_model_used_total":       true,
	"pricing_profit_delta_distribution":       true,

	// Training metrics.
	"pricing_training_duration_seconds": true,
	"pricing_models_trained_total":      true,

	// Alert metrics.
	"pricing_alerts_fired_total":          true,
	"pricing_notification_failures_total": true,

	// Recording rules.
	"pricing:http_requests:rate5m":         true,
	"pricing:http_errors:rate5m":           true,
	"pricing:recommendations:rate5m":       true,
	"pricing:recommendation_noops:rate5m":  true,
	"pricing:trained_model_share:ratio1h":  true,
	"pricing:notification_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
