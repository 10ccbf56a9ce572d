package pipeline

import (
	"fmt"
	"testing"
	"time"

	"myitems/internal"
)

func testItems() []internal.NormalizedItem {
	day := func(d int) time.Time {
		return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
	}
	return []internal.NormalizedItem{
		{ID: 1, Type: internal.SourceSchool, Source: "School Inventory", Name: sp("Projector"), Category: sp("AV Equipment"), SerialNumber: sp("PRJ-001"), Status: sp("available"), AssignedAt: day(3)},
		{ID: 2, Type: internal.SourceSchool, Source: "School Inventory", Name: sp("Office Chair"), Category: sp("Furniture"), PropertyNo: sp("FUR-22"), Status: sp("assigned"), AssignedAt: day(1)},
		{ID: 1, Type: internal.SourceDCP, Source: "DCP Package Inventory", Name: sp("Laptop"), Brand: sp("Dell"), Model: sp("Latitude 3420"), SerialNumber: sp("N/A"), ConditionStatus: sp("Working"), AssignedAt: day(5)},
		{ID: 2, Type: internal.SourceDCP, Source: "DCP Package Inventory", Name: sp("Printer"), Brand: sp("HP"), SerialNumber: sp("N/A"), ConditionStatus: sp("For Repair"), AssignedAt: day(2)},
	}
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	items := testItems()

	cases := []struct {
		term string
		want int
	}{
		{term: "projector", want: 1}, // name, case-insensitive
		{term: "FUR-22", want: 1},    // property no
		{term: "dell", want: 1},      // brand
		{term: "latitude", want: 1},  // model
		{term: "PRJ", want: 1},       // serial
		{term: "  ", want: 4},        // whitespace-only matches everything
		{term: "", want: 4},
		{term: "zzz", want: 0},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("term=%q", tc.term), func(t *testing.T) {
			state := DefaultFilterState().WithSearch(tc.term)
			got := Filtered(items, state)
			if len(got) != tc.want {
				t.Fatalf("len=%d want %d", len(got), tc.want)
			}
		})
	}
}

func TestSearchIdempotent(t *testing.T) {
	items := testItems()
	state := DefaultFilterState().WithSearch("laptop")

	once := Filtered(items, state)
	twice := Filtered(once, state)
	if len(once) != len(twice) {
		t.Fatalf("re-applying the same term changed the set: %d vs %d", len(once), len(twice))
	}

	cleared := Filtered(items, state.WithSearch(""))
	if len(cleared) != len(items) {
		t.Fatalf("clearing the term should restore the full set, got %d", len(cleared))
	}
}

func TestSourceFilter(t *testing.T) {
	items := testItems()

	if got := Filtered(items, DefaultFilterState().WithSource("school")); len(got) != 2 {
		t.Fatalf("school len=%d", len(got))
	}
	if got := Filtered(items, DefaultFilterState().WithSource("dcp")); len(got) != 2 {
		t.Fatalf("dcp len=%d", len(got))
	}
	if got := Filtered(items, DefaultFilterState().WithSource("all")); len(got) != 4 {
		t.Fatalf("all len=%d", len(got))
	}
}

func TestStatusFilter(t *testing.T) {
	items := testItems()

	cases := []struct {
		filter string
		want   int
	}{
		{filter: "available", want: 2}, // "available" and "Working"
		{filter: "assigned", want: 1},
		{filter: "maintenance", want: 1}, // "For Repair"
		{filter: "Working", want: 1},     // any other value matches exactly
		{filter: "all", want: 4},
	}

	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			got := Filtered(items, DefaultFilterState().WithStatus(tc.filter))
			if len(got) != tc.want {
				t.Fatalf("len=%d want %d", len(got), tc.want)
			}
		})
	}
}

func TestStatusFilterFallsBackToConditionStatus(t *testing.T) {
	items := []internal.NormalizedItem{
		{ID: 1, Type: internal.SourceDCP, ConditionStatus: sp("For Part Replacement")},
	}
	got := Filtered(items, DefaultFilterState().WithStatus("maintenance"))
	if len(got) != 1 {
		t.Fatalf("len=%d", len(got))
	}
}

func TestSortAssignedAtReversal(t *testing.T) {
	items := testItems()

	asc := Filtered(items, DefaultFilterState().WithSort("assigned_at", SortAsc))
	desc := Filtered(items, DefaultFilterState().WithSort("assigned_at", SortDesc))

	if len(asc) != len(desc) {
		t.Fatalf("lengths differ: %d vs %d", len(asc), len(desc))
	}
	for i := range asc {
		mirror := desc[len(desc)-1-i]
		if asc[i].Type != mirror.Type || asc[i].ID != mirror.ID {
			t.Fatalf("index %d: %s/%d vs %s/%d", i, asc[i].Type, asc[i].ID, mirror.Type, mirror.ID)
		}
	}
	if !asc[0].AssignedAt.Before(asc[len(asc)-1].AssignedAt) {
		t.Fatal("ascending order not ascending")
	}
}

func TestSortNameCaseInsensitive(t *testing.T) {
	items := []internal.NormalizedItem{
		{ID: 1, Type: internal.SourceSchool, Name: sp("zebra cabinet")},
		{ID: 2, Type: internal.SourceSchool, Name: sp("Air Conditioner")},
	}
	got := Filtered(items, DefaultFilterState().WithSort("name", SortAsc))
	if *got[0].Name != "Air Conditioner" {
		t.Fatalf("first=%s", *got[0].Name)
	}
}

func TestSortMissingDateSortsAsEpoch(t *testing.T) {
	items := []internal.NormalizedItem{
		{ID: 1, Type: internal.SourceSchool, AssignedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Type: internal.SourceSchool}, // no dates at all
	}
	got := Filtered(items, DefaultFilterState().WithSort("assigned_at", SortAsc))
	if got[0].ID != 2 {
		t.Fatalf("missing date should sort first ascending, got id=%d", got[0].ID)
	}
}

func TestPagination(t *testing.T) {
	items := make([]internal.NormalizedItem, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, internal.NormalizedItem{ID: int64(i), Type: internal.SourceSchool})
	}

	state := DefaultFilterState().WithItemsPerPage(10)

	page1 := Apply(items, state.WithPage(1))
	if len(page1.Items) != 10 || page1.TotalPages != 3 || page1.TotalItems != 25 {
		t.Fatalf("page1=%+v", page1)
	}
	page3 := Apply(items, state.WithPage(3))
	if len(page3.Items) != 5 {
		t.Fatalf("page3 len=%d", len(page3.Items))
	}
	page4 := Apply(items, state.WithPage(4))
	if len(page4.Items) != 0 {
		t.Fatalf("page4 len=%d, want empty slice not error", len(page4.Items))
	}
}

func TestPaginationEmptySetHasOnePage(t *testing.T) {
	page := Apply(nil, DefaultFilterState())
	if page.TotalPages != 1 || len(page.Items) != 0 {
		t.Fatalf("page=%+v", page)
	}
}

func TestFilterTransitionsResetPage(t *testing.T) {
	state := DefaultFilterState().WithPage(4)

	cases := []struct {
		name string
		next FilterState
	}{
		{name: "search", next: state.WithSearch("x")},
		{name: "source", next: state.WithSource("dcp")},
		{name: "status", next: state.WithStatus("available")},
		{name: "sort", next: state.WithSort("name", SortAsc)},
		{name: "page size", next: state.WithItemsPerPage(20)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.next.CurrentPage != 1 {
				t.Fatalf("page=%d", tc.next.CurrentPage)
			}
		})
	}

	if state.CurrentPage != 4 {
		t.Fatal("transitions must not mutate the previous state")
	}
}

func TestItemsPerPageRejectsUnknownSizes(t *testing.T) {
	state := DefaultFilterState().WithItemsPerPage(17)
	if state.ItemsPerPage != 10 {
		t.Fatalf("size=%d", state.ItemsPerPage)
	}
}
