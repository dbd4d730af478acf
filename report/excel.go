package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"migration-cost/core/estimate"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// ExcelReport renders the batch as a workbook with a summary sheet and a
// per-machine detail sheet.
type ExcelReport struct {
	// Path is the output file path
	Path string
}

// Name identifies the renderer.
func (e *ExcelReport) Name() string {
	return "excel"
}

// Generate writes the workbook.
func (e *ExcelReport) Generate(batch *estimate.Batch, rc *RunContext) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const detailSheet = "Machines"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Internal("failed to build Excel report", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return errors.Internal("failed to build Excel report", err)
	}

	summary := [][]interface{}{
		{"Run", rc.ID},
		{"Region", rc.Region},
		{"Generated", rc.Started.Format("2006-01-02 15:04")},
		{"Machines estimated", batch.Processed},
		{"Machines skipped", batch.Skipped},
		{"Unpriced offering results", batch.Invalid.Total()},
		{"Total 3-year estimate (USD)", FleetTotal(batch).StringFixed(2)},
	}
	for r, row := range summary {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return errors.Internal("failed to build Excel report", err)
			}
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return errors.Internal("failed to build Excel report", err)
			}
		}
	}

	sorted := *batch
	sorted.Records = append([]types.MachineCostRecord(nil), batch.Records...)
	sorted.SortByMachine()

	rows := [][]interface{}{{
		"VM", "OS", "Instance Type", "onDemand Cost", "1-Year Reserved",
		"3-Year Reserved", "Storage (GB)", "Storage Cost", "Total",
	}}
	for _, record := range sorted.Records {
		rows = append(rows, []interface{}{
			record.Machine,
			record.OS,
			record.OfferingID,
			quotePrice(record.Quotes[types.ModelOnDemand]),
			quotePrice(record.Quotes[types.Model1YrReserved]),
			quotePrice(record.Quotes[types.Model3YrReserved]),
			record.Storage.GB,
			record.Storage.ThreeYear.StringFixed(2),
			record.Total.StringFixed(2),
		})
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return errors.Internal("failed to build Excel report", err)
			}
			if err := f.SetCellValue(detailSheet, cell, value); err != nil {
				return errors.Internal("failed to build Excel report", err)
			}
		}
	}

	if err := f.SaveAs(e.Path); err != nil {
		return errors.Internal(fmt.Sprintf("failed to save Excel report to %s", e.Path), err)
	}
	return nil
}
