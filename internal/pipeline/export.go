package pipeline

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"myitems/internal"
	"myitems/internal/util"
)

// ErrNoItems refuses an export of an empty filtered set; callers show a
// warning and produce no file.
var ErrNoItems = errors.New("no items to export")

const (
	ReportFileCSV  = "my-assigned-items-report.csv"
	ReportFilePDF  = "my-assigned-items-report.pdf"
	ReportFileXLSX = "my-assigned-items-report.xlsx"
)

var reportHeader = []string{
	"Source", "Name", "Category", "Serial Number", "Quantity",
	"Unit of Measure", "Status", "Brand", "Model", "Assigned Date",
}

// BuildReportRows flattens the filtered set into the fixed ten-column
// report shape shared by all exporters.
func BuildReportRows(items []internal.NormalizedItem) []internal.ReportRow {
	rows := make([]internal.ReportRow, 0, len(items))
	for _, item := range items {
		row := internal.ReportRow{
			Source:       item.Source,
			Name:         item.DisplayName(),
			Category:     util.Deref(item.Category),
			SerialNumber: util.Deref(item.SerialNumber),
			Unit:         util.Deref(item.UnitOfMeasure),
			Status:       item.EffectiveStatus(),
			Brand:        util.Deref(item.Brand),
			Model:        util.Deref(item.Model),
		}
		if item.Quantity != nil {
			row.Quantity = strconv.FormatFloat(*item.Quantity, 'f', -1, 64)
		}
		if !item.AssignedAt.IsZero() {
			row.AssignedDate = item.AssignedAt.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows
}

// ExportCSV writes the filtered set as a comma-delimited report. Fields
// containing commas or quotes come out double-quote wrapped with internal
// quotes doubled, per standard CSV escaping.
func ExportCSV(items []internal.NormalizedItem, outputPath string) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	rows := BuildReportRows(items)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		_ = f.Close()
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Source, row.Name, row.Category, row.SerialNumber, row.Quantity,
			row.Unit, row.Status, row.Brand, row.Model, row.AssignedDate,
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
