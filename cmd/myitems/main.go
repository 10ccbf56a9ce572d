package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"myitems/internal"
	"myitems/internal/config"
	"myitems/internal/inventory"
	"myitems/internal/pipeline"
	"myitems/internal/session"
	"myitems/internal/storage"
	"myitems/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := inventory.NewClient(cfg)
	sess := session.New(inventory.NewFetchService(client, logger))
	ctx := context.Background()

	cmd := os.Args[1]
	if needsToken(cmd) {
		must(cfg.Require("INVENTORY_API_TOKEN", cfg.APIToken))
	}

	switch cmd {
	case "fetch":
		stats := refresh(ctx, sess, db)
		fmt.Printf("fetched: total=%d school=%d dcp=%d available=%d\n",
			stats.TotalItems, stats.SchoolItems, stats.DCPItems, stats.AvailableItems)
	case "report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		filters := addFilterFlags(fs)
		_ = fs.Parse(os.Args[2:])
		refresh(ctx, sess, db)
		sess.SetFilter(filters.state())
		printPage(sess.Page(), sess.Stats())
	case "show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		itemType := fs.String("type", "school", "school|dcp")
		itemID := fs.Int64("id", 0, "item id within its source")
		_ = fs.Parse(os.Args[2:])
		if *itemID == 0 {
			must(fmt.Errorf("--id is required"))
		}
		refresh(ctx, sess, db)
		item, ok := findItem(sess.Items(), internal.SourceType(*itemType), *itemID)
		if !ok {
			must(fmt.Errorf("no %s item with id %d", *itemType, *itemID))
		}
		printDetail(item, client)
	case "export:csv", "export:pdf", "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		filters := addFilterFlags(fs)
		out := fs.String("out", "", "output path (defaults into the output dir)")
		_ = fs.Parse(os.Args[2:])
		refresh(ctx, sess, db)
		sess.SetFilter(filters.state())
		kind := strings.TrimPrefix(cmd, "export:")
		runExport(sess, db, cfg, kind, *out)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])
		if last, err := db.GetMetadata(storage.MetaLastFetch); err == nil && last != nil {
			fmt.Printf("last fetch: %s\n", *last)
		}
		runs, err := db.ListFetchRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("%-5d %-12s personnel=%-6d school=%-5d dcp=%-5d %s\n",
				run.ID, run.Status, run.PersonnelID, run.SchoolCount, run.DCPCount, run.CreatedAt)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// needsToken reports whether a command talks to the backend; runs only
// reads the local history.
func needsToken(cmd string) bool {
	switch cmd {
	case "fetch", "report", "show":
		return true
	}
	return strings.HasPrefix(cmd, "export:")
}

type filterFlags struct {
	search    *string
	source    *string
	status    *string
	sortField *string
	sortDir   *string
	page      *int
	perPage   *int
}

func addFilterFlags(fs *flag.FlagSet) filterFlags {
	return filterFlags{
		search:    fs.String("search", "", "search term"),
		source:    fs.String("source", "all", "all|school|dcp"),
		status:    fs.String("status", "all", "all|available|assigned|maintenance|..."),
		sortField: fs.String("sort", "assigned_at", "sort field"),
		sortDir:   fs.String("dir", "desc", "asc|desc"),
		page:      fs.Int("page", 1, "page number"),
		perPage:   fs.Int("per-page", 10, "items per page (5/10/20/50)"),
	}
}

func (f filterFlags) state() pipeline.FilterState {
	return pipeline.DefaultFilterState().
		WithSearch(*f.search).
		WithSource(*f.source).
		WithStatus(*f.status).
		WithSort(*f.sortField, *f.sortDir).
		WithItemsPerPage(*f.perPage).
		WithPage(*f.page)
}

// refresh runs a full fetch cycle and records it. A failed fetch is
// reported but leaves the CLI running with an empty list.
func refresh(ctx context.Context, sess *session.Session, db *storage.DB) internal.Stats {
	stats, err := sess.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load assigned items: %v\n", err)
		_ = db.RecordFetchRun(0, 0, 0, "failed")
		return internal.Stats{}
	}
	_ = db.RecordFetchRun(sess.PersonnelID(), stats.SchoolItems, stats.DCPItems, "ok")
	return stats
}

func runExport(sess *session.Session, db *storage.DB, cfg config.Config, kind, out string) {
	if !sess.TryBeginExport() {
		fmt.Fprintln(os.Stderr, "warning: another export is already in progress")
		return
	}
	defer sess.EndExport()

	items := sess.Filtered()

	if out == "" {
		name := pipeline.ReportFileCSV
		switch kind {
		case "pdf":
			name = pipeline.ReportFilePDF
		case "xlsx":
			name = pipeline.ReportFileXLSX
		}
		out = filepath.Join(cfg.OutputDir, name)
	}

	var err error
	switch kind {
	case "pdf":
		err = pipeline.ExportPDF(items, out)
	case "xlsx":
		err = pipeline.ExportXLSX(items, out)
	default:
		err = pipeline.ExportCSV(items, out)
	}
	if errors.Is(err, pipeline.ErrNoItems) {
		fmt.Fprintln(os.Stderr, "warning: no items match the current filters, nothing exported")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: export failed: %v\n", err)
		return
	}

	_ = db.InsertExport(kind, out, len(items))
	fmt.Printf("exported %d items to %s\n", len(items), out)
}

func printPage(page pipeline.Page, stats internal.Stats) {
	fmt.Printf("total=%d school=%d dcp=%d available=%d\n\n",
		stats.TotalItems, stats.SchoolItems, stats.DCPItems, stats.AvailableItems)

	rows := pipeline.BuildReportRows(page.Items)
	fmt.Printf("%-22s %-32s %-18s %-16s %-10s %-18s %-10s\n",
		"SOURCE", "NAME", "CATEGORY", "SERIAL", "QTY", "STATUS", "ASSIGNED")
	for _, row := range rows {
		fmt.Printf("%-22s %-32s %-18s %-16s %-10s %-18s %-10s\n",
			clip(row.Source, 22), clip(row.Name, 32), clip(row.Category, 18),
			clip(row.SerialNumber, 16), clip(row.Quantity+" "+row.Unit, 10),
			clip(row.Status, 18), row.AssignedDate)
	}
	fmt.Printf("\npage %d of %d (%d items)\n", page.CurrentPage, page.TotalPages, page.TotalItems)
}

func printDetail(item internal.NormalizedItem, client *inventory.Client) {
	line := func(label, value string) {
		fmt.Printf("%-20s %s\n", label+":", orNA(value))
	}

	line("Source", item.Source)
	line("Name", item.DisplayName())
	line("Category", util.Deref(item.Category))
	line("Serial Number", util.Deref(item.SerialNumber))
	line("Property No", util.Deref(item.PropertyNo))
	line("Brand", util.Deref(item.Brand))
	line("Model", util.Deref(item.Model))
	line("Quantity", formatQty(item.Quantity, util.Deref(item.UnitOfMeasure)))
	if item.Type == internal.SourceDCP {
		line("Available Quantity", formatQty(item.AvailableQuantity, util.Deref(item.UnitOfMeasure)))
		line("Unit Value", formatMoney(item.UnitValue))
	} else {
		line("Unit Price", formatMoney(item.UnitPrice))
	}
	line("Status", item.EffectiveStatus())
	line("Location", util.Deref(item.Location))
	if !item.AssignedAt.IsZero() {
		line("Assigned", item.AssignedAt.Format("Jan 2, 2006"))
	} else {
		line("Assigned", "")
	}
	line("Notes", util.Deref(item.Notes))
	line("Remarks", util.Deref(item.Remarks))
	if item.ImagePath != nil {
		line("Image", client.AssetImageURL(*item.ImagePath))
	}
}

func findItem(items []internal.NormalizedItem, sourceType internal.SourceType, id int64) (internal.NormalizedItem, bool) {
	for _, item := range items {
		if item.Type == sourceType && item.ID == id {
			return item, true
		}
	}
	return internal.NormalizedItem{}, false
}

func formatQty(qty *float64, unit string) string {
	if qty == nil {
		return ""
	}
	s := fmt.Sprintf("%g", *qty)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func formatMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "~"
}

func usage() {
	fmt.Println("usage: myitems <command>")
	fmt.Println("commands:")
	fmt.Println("  fetch")
	fmt.Println("  report [--search=... --source=all|school|dcp --status=... --sort=... --dir=asc|desc --page=1 --per-page=10]")
	fmt.Println("  show --type=school|dcp --id=N")
	fmt.Println("  export:csv|export:pdf|export:xlsx [filter flags] [--out=path]")
	fmt.Println("  runs [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
