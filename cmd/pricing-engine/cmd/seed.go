package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pricing-engine/internal/config"
	"github.com/donaldgifford/pricing-engine/internal/dataset"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic CSV datasets",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("data-dir", "", "override data directory")
	seedCmd.Flags().Int64("seed", 42, "random seed")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir := cfg.Data.Dir
	if override, _ := cmd.Flags().GetString("data-dir"); override != "" {
		dir = override
	}
	seed, _ := cmd.Flags().GetInt64("seed")

	if err := dataset.NewSeeder(seed).Generate(dir); err != nil {
		return fmt.Errorf("seeding datasets: %w", err)
	}

	fmt.Println("Datasets written to", dir)
	return nil
}
