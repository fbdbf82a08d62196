package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/pricing-engine/tools/dashgen/dashboards"
	"github.com/donaldgifford/pricing-engine/tools/dashgen/rules"
	"github.com/donaldgifford/pricing-engine/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	if err := validateArtifacts(); err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	return writeArtifacts(cfg)
}

func validateArtifacts() error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	result := validate.Dashboard(dash, KnownMetrics)
	result.Warnings = append(result.Warnings,
		validate.Exprs(ruleExprs(), KnownMetrics).Warnings...)

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Ok() {
		return fmt.Errorf("validation failed: %v", result.Errors)
	}
	return nil
}

func ruleExprs() []string {
	var exprs []string
	for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
		for _, group := range cr.Spec.Groups {
			for _, rule := range group.Rules {
				exprs = append(exprs, rule.Expr)
			}
		}
	}
	return exprs
}

func writeArtifacts(cfg Config) error {
	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return fmt.Errorf("building dashboard: %w", err)
		}

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		data = append(data, '\n')

		path := filepath.Join(cfg.OutputDir, "grafana", "data", "pricing-overview.json")
		if err := writeFile(path, data); err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}

	if cfg.RulesEnabled {
		for name, cr := range map[string]rules.PrometheusRule{
			"pricing-recording-rules.yaml": rules.RecordingRules(),
			"pricing-alerts.yaml":          rules.AlertRules(),
		} {
			data, err := yaml.Marshal(cr)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", name, err)
			}
			data = append([]byte(generatedHeader), data...)

			path := filepath.Join(cfg.OutputDir, "prometheus", name)
			if err := writeFile(path, data); err != nil {
				return err
			}
			fmt.Println("wrote", path)
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
