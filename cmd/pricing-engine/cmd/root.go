// Package cmd implements the CLI commands for pricing-engine.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pricing-engine",
	Short: "Per-product price recommendations from sales history",
	Long: "A pricing service that estimates demand from historical sales,\n" +
		"searches a guarded candidate band for the profit-maximizing price\n" +
		"per product, and alerts on large recommended moves.",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(versionCommand())
}

func initConfig() {
	viper.SetEnvPrefix("PRICING")
	viper.AutomaticEnv()
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
