package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// pricing-engine operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricing-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricing-alerts",
					Rules: []Rule{
						{
							Alert: "PricingEngineDown",
							Expr:  `absent(up{job="pricing-engine"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Pricing Engine is down",
								"description": "The pricing-engine job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "PricingReadinessDown",
							Expr:  `pricing_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Pricing Engine readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "PricingHighErrorRate",
							Expr:  `pricing:http_errors:rate5m / pricing:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Pricing Engine",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "PricingNoRecentPass",
							Expr:  `increase(pricing_recommendations_total[3h]) == 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No recommendation rows produced recently",
								"description": "The scheduled recommendation pass has produced no rows for 3 hours.",
							},
						},
						{
							Alert: "PricingHighNoOpShare",
							Expr:  `pricing:recommendation_noops:rate5m / pricing:recommendations:rate5m > 0.5`,
							For:   "30m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Most products lack sufficient sales history",
								"description": "More than half of recommendation rows are no-ops, which usually means the sales dataset is stale or truncated.",
							},
						},
						{
							Alert: "PricingLowTrainedShare",
							Expr:  `pricing:trained_model_share:ratio1h < 0.5`,
							For:   "1h",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Most recommendations are using the fallback fit",
								"description": "Fewer than half of recommendations are served by trained elasticity models. Check that the training pass is running and artifacts are readable.",
							},
						},
						{
							Alert: "PricingTrainingStalled",
							Expr:  `increase(pricing_models_trained_total[48h]) == 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No models trained in 48 hours",
								"description": "The scheduled training pass has not written any model artifacts for 48 hours.",
							},
						},
						{
							Alert: "PricingNotificationFailures",
							Expr:  `increase(pricing_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more pricing alerts (Slack webhook or email) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
