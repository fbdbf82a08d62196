package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pricing-engine/internal/config"
	"github.com/donaldgifford/pricing-engine/internal/engine"
	"github.com/donaldgifford/pricing-engine/pkg/logger"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain per-product demand models from the sales history",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().String("data-dir", "", "override data directory")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	eng := buildEngine(cfg, log, nil)
	runner := engine.NewRunner(eng, cfg.Data.Dir)

	scores, err := runner.RunTraining(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(scores)
	}

	if err := printTrainingTable(scores); err != nil {
		return err
	}
	fmt.Printf("\n%d models written to %s\n", len(scores), cfg.Models.Dir)
	return nil
}
