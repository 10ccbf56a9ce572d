package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFetchRunHistory(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertFetchRun(7, 3, 2, "ok"); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertFetchRun(0, 0, 0, "failed"); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListFetchRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len=%d", len(runs))
	}
	// Newest first.
	if runs[0].Status != "failed" || runs[1].Status != "ok" {
		t.Fatalf("order: %s, %s", runs[0].Status, runs[1].Status)
	}
	if runs[1].PersonnelID != 7 || runs[1].SchoolCount != 3 || runs[1].DCPCount != 2 {
		t.Fatalf("run=%+v", runs[1])
	}

	limited, err := db.ListFetchRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited len=%d", len(limited))
	}
}

func TestRecordFetchRunStampsLastFetch(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordFetchRun(7, 3, 2, "ok"); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListFetchRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len=%d", len(runs))
	}

	stamp, err := db.GetMetadata(MetaLastFetch)
	if err != nil {
		t.Fatal(err)
	}
	if stamp == nil {
		t.Fatal("last fetch not stamped")
	}
	if _, err := time.Parse(time.RFC3339, *stamp); err != nil {
		t.Fatalf("stamp %q not RFC3339: %v", *stamp, err)
	}
}

func TestExportHistory(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertExport("csv", "/tmp/out/my-assigned-items-report.csv", 12); err != nil {
		t.Fatal(err)
	}

	exports, err := db.ListExports(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 {
		t.Fatalf("len=%d", len(exports))
	}
	if exports[0].Kind != "csv" || exports[0].RowCount != 12 {
		t.Fatalf("export=%+v", exports[0])
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata(MetaLastFetch)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("missing=%v", *missing)
	}

	if err := db.SetMetadata(MetaLastFetch, "2026-02-08T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata(MetaLastFetch, "2026-02-09T00:00:00Z"); err != nil {
		t.Fatal(err)
	}

	value, err := db.GetMetadata(MetaLastFetch)
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "2026-02-09T00:00:00Z" {
		t.Fatalf("value=%v", value)
	}
}
