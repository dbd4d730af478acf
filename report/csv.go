package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"migration-cost/core/estimate"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// csvColumns is the fixed report column set.
var csvColumns = []string{
	"VM", "Instance Type", "onDemand Cost", "1-Year Reserved",
	"3-Year Reserved", "Storage (GB)", "Storage Cost", "Total",
}

// CSVWriter renders the batch as a flat CSV table, sorted by machine
// name for stable output.
type CSVWriter struct {
	// Path is the output file path
	Path string
}

// Name identifies the renderer.
func (w *CSVWriter) Name() string {
	return "csv"
}

// Generate writes the report file.
func (w *CSVWriter) Generate(batch *estimate.Batch, _ *RunContext) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return errors.Internal("failed to create CSV report", err)
	}
	defer f.Close()

	out := csv.NewWriter(f)
	if err := out.Write(csvColumns); err != nil {
		return errors.Internal("failed to write CSV header", err)
	}

	sorted := *batch
	sorted.Records = append([]types.MachineCostRecord(nil), batch.Records...)
	sorted.SortByMachine()

	for _, record := range sorted.Records {
		row := []string{
			record.Machine,
			record.OfferingID,
			quotePrice(record.Quotes[types.ModelOnDemand]),
			quotePrice(record.Quotes[types.Model1YrReserved]),
			quotePrice(record.Quotes[types.Model3YrReserved]),
			strconv.FormatFloat(record.Storage.GB, 'f', -1, 64),
			record.Storage.ThreeYear.StringFixed(2),
			record.Total.StringFixed(2),
		}
		if err := out.Write(row); err != nil {
			return errors.Internal("failed to write CSV row", err)
		}
	}

	out.Flush()
	return out.Error()
}

// quotePrice formats a quote price, empty for the unavailable sentinel.
func quotePrice(q *types.Quote) string {
	if q == nil {
		return ""
	}
	return q.Price.StringFixed(2)
}
