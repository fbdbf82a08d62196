package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RecommendationRate returns a timeseries panel showing recommendation
// rows produced per second, with the no-op share alongside.
func RecommendationRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Recommendation Rate").
		Description("Recommendation rows produced per second, split by no-op rows").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`pricing:recommendations:rate5m`, "rows/s", "A")).
		WithTarget(PromQuery(`pricing:recommendation_noops:rate5m`, "no-ops/s", "B")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PassDuration returns a timeseries panel showing p50 and p95 full-pass
// durations.
func PassDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Pass Duration").
		Description("Recommendation pass duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(pricing_recommendation_duration_seconds_bucket{job="pricing-engine"}[5m])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pricing_recommendation_duration_seconds_bucket{job="pricing-engine"}[5m])) by (le))`,
			"p95", "B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProfitDeltaQuantiles returns a timeseries panel showing the distribution
// of expected profit deltas per recommendation.
func ProfitDeltaQuantiles() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Expected Profit Delta").
		Description("Median and p90 expected profit delta per recommendation").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(pricing_profit_delta_distribution_bucket{job="pricing-engine"}[1h])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.90, sum(rate(pricing_profit_delta_distribution_bucket{job="pricing-engine"}[1h])) by (le))`,
			"p90", "B",
		)).
		Unit("currencyUSD").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
