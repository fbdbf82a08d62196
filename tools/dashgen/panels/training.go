package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ModelsTrained returns a stat panel showing models trained in the past
// 24 hours.
func ModelsTrained() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Models Trained (24h)").
		Description("Elasticity model artifacts written in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(pricing_models_trained_total{job="pricing-engine"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// TrainingDuration returns a timeseries panel showing p95 training pass
// duration.
func TrainingDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Training Duration (p95)").
		Description("95th percentile training pass duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pricing_training_duration_seconds_bucket{job="pricing-engine"}[1h])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(30, 120)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ModelUsageSplit returns a timeseries panel comparing trained-model and
// fallback-model usage.
func ModelUsageSplit() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Model Usage").
		Description("Recommendations served by trained models vs the fallback fit").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`rate(pricing_trained_model_used_total{job="pricing-engine"}[5m])`,
			"trained", "A",
		)).
		WithTarget(PromQuery(
			`rate(pricing_fallback_model_used_total{job="pricing-engine"}[5m])`,
			"fallback", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
