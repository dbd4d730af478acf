// Package cmd - catalog command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	awsinventory "migration-cost/clouds/aws/inventory"
	"migration-cost/core/catalog"
	"migration-cost/internal/config"
)

var catalogRegion string

// catalogCmd dumps the offering catalog the estimator would size against.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the compute offerings available for sizing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		region := config.Get().AWS.Region
		if catalogRegion != "" {
			region = catalogRegion
		}

		source, err := awsinventory.New(ctx, region)
		if err != nil {
			return fmt.Errorf("failed to initialize inventory source: %w", err)
		}
		offerings, err := source.FetchOfferings(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch compute offerings: %w", err)
		}
		cat, err := catalog.New(offerings)
		if err != nil {
			return fmt.Errorf("failed to build catalog: %w", err)
		}

		fmt.Printf("%d offerings (min %d vCPU / %.1f GiB)\n", cat.Len(), cat.MinCPU(), cat.MinRAM())
		for _, o := range cat.Offerings() {
			fmt.Printf("%-24s %4d vCPU %10.1f GiB\n", o.ID, o.CPU, o.RAMGiB)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogRegion, "region", "r", "", "AWS region (default from config)")
}
