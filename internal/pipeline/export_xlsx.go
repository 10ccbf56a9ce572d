package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"myitems/internal"
)

// ExportXLSX writes the filtered set as a spreadsheet with the same ten
// columns as the CSV report.
func ExportXLSX(items []internal.NormalizedItem, outputPath string) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	rows := BuildReportRows(items)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.Source)
		set(2, row.Name)
		set(3, row.Category)
		set(4, row.SerialNumber)
		set(5, row.Quantity)
		set(6, row.Unit)
		set(7, row.Status)
		set(8, row.Brand)
		set(9, row.Model)
		set(10, row.AssignedDate)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
