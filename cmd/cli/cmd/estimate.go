// Package cmd - estimate command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"migration-cost/adapters/rvtools"
	awsinventory "migration-cost/clouds/aws/inventory"
	awspricing "migration-cost/clouds/aws/pricing"
	"migration-cost/core/catalog"
	"migration-cost/core/estimate"
	"migration-cost/core/pricing"
	"migration-cost/internal/config"
	"migration-cost/internal/logging"
	"migration-cost/report"
)

var (
	inputFile  string
	outputFile string
	pdfFile    string
	xlsxFile   string
	threads    int
	region     string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate migration costs for an RVTools inventory",
	Long: `Read an RVTools export, size every machine against the EC2 offering
catalog, price the matches, and write the aggregate report.

Examples:
  migration-cost estimate --input rvtools.xlsx --output estimate.csv
  migration-cost estimate --input rvtools.xlsx --output estimate.csv --pdf quote.pdf --threads 10`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to RVTools Excel file (required)")
	estimateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "path to output CSV file (required)")
	estimateCmd.Flags().StringVar(&pdfFile, "pdf", "", "path to output PDF quote")
	estimateCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "path to output Excel report")
	estimateCmd.Flags().IntVarP(&threads, "threads", "t", 0, "worker pool size (default from config)")
	estimateCmd.Flags().StringVarP(&region, "region", "r", "", "AWS region for pricing (default from config)")
	_ = estimateCmd.MarkFlagRequired("input")
	_ = estimateCmd.MarkFlagRequired("output")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	startTime := time.Now()

	cfg := config.Get()
	if region != "" {
		cfg.AWS.Region = region
	}
	workers := cfg.Estimate.Workers
	if threads > 0 {
		workers = threads
	}

	log := logging.Named("cli")

	// Load the inventory.
	inv, err := rvtools.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	if len(inv.Machines) == 0 {
		return fmt.Errorf("no machine records found in %s", inputFile)
	}
	fmt.Printf("Loaded %d machines and %d disk records\n", len(inv.Machines), len(inv.Disks))

	// Build the offering catalog.
	log.Infow("fetching compute offerings", "region", cfg.AWS.Region)
	inventorySource, err := awsinventory.New(ctx, cfg.AWS.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize inventory source: %w", err)
	}
	offerings, err := inventorySource.FetchOfferings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch compute offerings: %w", err)
	}
	cat, err := catalog.New(offerings)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	// Build the price oracle.
	priceSource, err := awspricing.New(ctx, cfg.AWS)
	if err != nil {
		return fmt.Errorf("failed to initialize price source: %w", err)
	}
	oracle := pricing.NewOracle(priceSource)

	// Assemble renderers and hooks.
	registry := report.NewRegistry()
	registry.RegisterRenderer(&report.CSVWriter{Path: outputFile})
	if pdfFile != "" {
		registry.RegisterRenderer(&report.PDFQuote{
			Path:     pdfFile,
			Title:    cfg.Report.Title,
			Currency: cfg.Report.Currency,
		})
	}
	if xlsxFile != "" {
		registry.RegisterRenderer(&report.ExcelReport{Path: xlsxFile})
	}

	rc := report.NewRunContext(cfg.AWS.Region, workers)
	machines, disks := registry.RunPreProcess(inv.Machines, inv.Disks, rc)

	fmt.Printf("Estimating %d machines across %d workers\n", len(machines), workers)
	batch, err := estimate.Run(ctx, machines, disks, cat, oracle, estimate.Options{Workers: workers})
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	batch = registry.RunPostProcess(batch, rc)

	if total := batch.Invalid.Total(); total > 0 {
		fmt.Printf("%d pricing lookups returned no usable price:\n", total)
		for _, entry := range batch.Invalid.MostCommon() {
			fmt.Printf("  %s: %d\n", entry.OfferingID, entry.Count)
		}
	}

	registry.GenerateAll(batch, rc)

	fmt.Printf("Estimated %d machines (%d skipped) in %.2fs; fleet 3-year total %s %s\n",
		batch.Processed, batch.Skipped, time.Since(startTime).Seconds(),
		report.FleetTotal(batch).StringFixed(2), cfg.Report.Currency)
	return nil
}
