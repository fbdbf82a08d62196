package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricing-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricing-recording",
					Rules: []Rule{
						{
							Record: "pricing:http_requests:rate5m",
							Expr:   `sum(rate(pricing_http_requests_total[5m]))`,
						},
						{
							Record: "pricing:http_errors:rate5m",
							Expr:   `sum(rate(pricing_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "pricing:recommendations:rate5m",
							Expr:   `rate(pricing_recommendations_total[5m])`,
						},
						{
							Record: "pricing:recommendation_noops:rate5m",
							Expr:   `rate(pricing_recommendation_noops_total[5m])`,
						},
						{
							Record: "pricing:trained_model_share:ratio1h",
							Expr: `increase(pricing_trained_model_used_total[1h]) / ` +
								`(increase(pricing_trained_model_used_total[1h]) + increase(pricing_fallback_model_used_total[1h]))`,
						},
						{
							Record: "pricing:notification_failures:rate5m",
							Expr:   `rate(pricing_notification_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}
