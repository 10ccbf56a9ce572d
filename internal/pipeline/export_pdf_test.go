package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pdf "github.com/ledongthuc/pdf"
)

func TestExportPDFContent(t *testing.T) {
	out := filepath.Join(t.TempDir(), ReportFilePDF)
	if err := ExportPDF(exportItems(), out); err != nil {
		t.Fatal(err)
	}

	blob, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatal(err)
	}

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
	}

	for _, want := range []string{"My Assigned Items", "Laptop", "School Inventory"} {
		if !strings.Contains(text.String(), want) {
			t.Fatalf("pdf text missing %q:\n%s", want, text.String())
		}
	}
}
