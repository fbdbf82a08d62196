// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/pricing-engine/tools/dashgen/panels"
)

// BuildOverview constructs the Pricing Engine Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Pricing Engine Overview").
		Uid("pricing-overview").
		Tags([]string{"pricing", "pricing-engine"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.TrainedShareGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Recommendations.
	b.WithRow(dashboard.NewRowBuilder("Recommendations").
		WithPanel(panels.RecommendationRate()).
		WithPanel(panels.PassDuration()).
		WithPanel(panels.ProfitDeltaQuantiles()))

	// Row 4: Training.
	b.WithRow(dashboard.NewRowBuilder("Training").
		WithPanel(panels.ModelsTrained()).
		WithPanel(panels.TrainingDuration()).
		WithPanel(panels.ModelUsageSplit()))

	// Row 5: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
