// Package cmd provides the CLI commands for migration-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"migration-cost/internal/config"
	"migration-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migration-cost",
	Short: "Estimate cloud-migration costs for a VM fleet",
	Long: `migration-cost sizes each virtual machine in an RVTools inventory
against the EC2 offering catalog, prices the match under on-demand and
reserved commitment models, and aggregates compute and storage into a
fleet-wide estimate.

Examples:
  migration-cost estimate --input rvtools.xlsx --output estimate.csv
  migration-cost estimate --input rvtools.xlsx --output estimate.csv --pdf quote.pdf
  migration-cost catalog --region us-east-1`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("migration-cost version 0.1.0")
	},
}
