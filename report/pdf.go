package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"migration-cost/core/estimate"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// PDFQuote renders the batch as a customer-facing quote document: a
// summary page with fleet totals followed by a per-machine table.
type PDFQuote struct {
	// Path is the output file path
	Path string

	// Title is the document heading
	Title string

	// Currency is the label used next to money values
	Currency string
}

// Name identifies the renderer.
func (p *PDFQuote) Name() string {
	return "pdf"
}

// Generate writes the quote document.
func (p *PDFQuote) Generate(batch *estimate.Batch, rc *RunContext) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(p.Title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, p.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run %s - %s - generated %s",
		rc.ID, rc.Region, rc.Started.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	total := FleetTotal(batch)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Machines estimated: %d (skipped: %d)",
		batch.Processed, batch.Skipped), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total 3-year estimate: %s %s",
		total.StringFixed(2), p.Currency), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	header := []string{"VM", "Instance", "3-yr Instance", "Storage GB", "Storage", "Total"}
	widths := []float64{45, 30, 30, 25, 30, 30}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	sorted := *batch
	sorted.Records = append([]types.MachineCostRecord(nil), batch.Records...)
	sorted.SortByMachine()

	pdf.SetFont("Arial", "", 9)
	for _, record := range sorted.Records {
		offering := record.OfferingID
		instance := "n/a"
		if q := record.Quotes[types.Model3YrReserved]; q != nil {
			instance = q.Price.StringFixed(2)
		}
		cells := []string{
			record.Machine,
			offering,
			instance,
			fmt.Sprintf("%.2f", record.Storage.GB),
			record.Storage.ThreeYear.StringFixed(2),
			record.Total.StringFixed(2),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if invalid := batch.Invalid.MostCommon(); len(invalid) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, fmt.Sprintf("Offerings without usable prices: %d", batch.Invalid.Total()), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, entry := range invalid {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %d", entry.OfferingID, entry.Count), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(p.Path); err != nil {
		return errors.Internal("failed to write PDF quote", err)
	}
	return nil
}

// FleetTotal sums the grand totals across all records.
func FleetTotal(batch *estimate.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, record := range batch.Records {
		total = total.Add(record.Total)
	}
	return total
}
