// Package validate checks generated dashboards and rules for PromQL
// errors and references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors are broken expressions;
// Warnings are expressions referencing unknown metrics.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Dashboard validates every PromQL expression in a built dashboard against
// the known metric set.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var result Result

	data, err := json.Marshal(dash)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return result
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("unmarshaling dashboard: %v", err))
		return result
	}

	for _, expr := range collectExprs(tree) {
		result.merge(Exprs([]string{expr}, known))
	}
	return result
}

// Exprs validates a list of PromQL expressions against the known metric set.
func Exprs(exprs []string, known map[string]bool) Result {
	var result Result

	for _, expr := range exprs {
		parsed, err := parser.ParseExpr(expr)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
			continue
		}

		parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
			vs, ok := node.(*parser.VectorSelector)
			if !ok || vs.Name == "" {
				return nil
			}
			if !knownMetric(vs.Name, known) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("expression %q references unknown metric %q", expr, vs.Name))
			}
			return nil
		})
	}
	return result
}

// knownMetric reports whether name (or its histogram series base) is a
// known metric.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// collectExprs walks a JSON tree collecting every "expr" string value.
func collectExprs(node any) []string {
	var exprs []string

	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					exprs = append(exprs, s)
					continue
				}
			}
			exprs = append(exprs, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			exprs = append(exprs, collectExprs(item)...)
		}
	}
	return exprs
}
