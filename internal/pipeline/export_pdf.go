package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"myitems/internal"
)

// ExportPDF writes the filtered set as a landscape A4 report: title,
// generation timestamp, a summary table and a detail table.
func ExportPDF(items []internal.NormalizedItem, outputPath string) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	stats := ComputeStats(items)
	rows := BuildReportRows(items)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "My Assigned Items", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("Jan 2, 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	summaryHeader := []string{"Total Items", "School Inventory", "DCP Package", "Available"}
	summaryValues := []string{
		fmt.Sprintf("%d", stats.TotalItems),
		fmt.Sprintf("%d", stats.SchoolItems),
		fmt.Sprintf("%d", stats.DCPItems),
		fmt.Sprintf("%d", stats.AvailableItems),
	}
	pdf.SetFillColor(230, 236, 245)
	for _, h := range summaryHeader {
		pdf.CellFormat(45, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, v := range summaryValues {
		pdf.CellFormat(45, 7, v, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(10)

	widths := []float64{42, 62, 35, 38, 28, 34, 38}
	detailHeader := []string{"Source", "Name", "Category", "Serial No.", "Quantity", "Status", "Assigned"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 236, 245)
	for i, h := range detailHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		qty := row.Quantity
		if qty != "" && row.Unit != "" {
			qty = qty + " " + row.Unit
		}
		cells := []string{
			row.Source,
			truncate(row.Name, 42),
			truncate(row.Category, 24),
			truncate(row.SerialNumber, 24),
			qty,
			truncate(row.Status, 22),
			row.AssignedDate,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outputPath)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}
