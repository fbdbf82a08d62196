package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pricing-engine/internal/config"
	"github.com/donaldgifford/pricing-engine/internal/engine"
	"github.com/donaldgifford/pricing-engine/internal/store"
	"github.com/donaldgifford/pricing-engine/pkg/logger"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one recommendation pass over the CSV dataset",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().String("data-dir", "", "override data directory")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var st store.Store
	if cfg.Database.Enabled {
		pg, err := store.NewPostgresStore(cmd.Context(), cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()
		st = pg
	}

	eng := buildEngine(cfg, log, st)
	runner := engine.NewRunner(eng, cfg.Data.Dir)

	result, err := runner.RunRecommendationPass(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(result.Recommendations)
	}

	if err := printRecommendationsTable(result.Recommendations); err != nil {
		return err
	}
	if result.CSVPath != "" {
		fmt.Println("\nReport written to", result.CSVPath)
	}
	return nil
}
