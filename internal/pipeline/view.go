package pipeline

import (
	"sort"
	"strings"
	"time"

	"myitems/internal"
	"myitems/internal/util"
)

const (
	FilterAll = "all"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageSizes are the page sizes the dashboard offers.
var PageSizes = []int{5, 10, 20, 50}

// FilterState is the immutable view-session state. Transitions go through
// the With* methods, which return a new value; any filter or page-size
// change resets the current page to 1.
type FilterState struct {
	SearchTerm    string
	SourceFilter  string
	StatusFilter  string
	SortField     string
	SortDirection string
	ItemsPerPage  int
	CurrentPage   int
}

func DefaultFilterState() FilterState {
	return FilterState{
		SourceFilter:  FilterAll,
		StatusFilter:  FilterAll,
		SortField:     "assigned_at",
		SortDirection: SortDesc,
		ItemsPerPage:  10,
		CurrentPage:   1,
	}
}

func (f FilterState) WithSearch(term string) FilterState {
	f.SearchTerm = term
	f.CurrentPage = 1
	return f
}

func (f FilterState) WithSource(source string) FilterState {
	f.SourceFilter = source
	f.CurrentPage = 1
	return f
}

func (f FilterState) WithStatus(status string) FilterState {
	f.StatusFilter = status
	f.CurrentPage = 1
	return f
}

func (f FilterState) WithSort(field, direction string) FilterState {
	f.SortField = field
	if direction == SortAsc || direction == SortDesc {
		f.SortDirection = direction
	}
	f.CurrentPage = 1
	return f
}

// WithItemsPerPage ignores sizes outside the offered set.
func (f FilterState) WithItemsPerPage(size int) FilterState {
	for _, allowed := range PageSizes {
		if size == allowed {
			f.ItemsPerPage = size
			f.CurrentPage = 1
			break
		}
	}
	return f
}

func (f FilterState) WithPage(page int) FilterState {
	if page < 1 {
		page = 1
	}
	f.CurrentPage = page
	return f
}

// Page is one rendered slice of the filtered result set.
type Page struct {
	Items       []internal.NormalizedItem
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// Filtered runs search, source and status filters then sorts, returning
// the full working result set the exporters consume. The input slice is
// never reordered in place.
func Filtered(items []internal.NormalizedItem, f FilterState) []internal.NormalizedItem {
	out := make([]internal.NormalizedItem, 0, len(items))
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	for _, item := range items {
		if !matchesSearch(item, term) {
			continue
		}
		if !matchesSource(item, f.SourceFilter) {
			continue
		}
		if !matchesStatus(item, f.StatusFilter) {
			continue
		}
		out = append(out, item)
	}
	sortItems(out, f.SortField, f.SortDirection)
	return out
}

// Apply runs the full pipeline: filter, sort, paginate.
func Apply(items []internal.NormalizedItem, f FilterState) Page {
	filtered := Filtered(items, f)

	size := f.ItemsPerPage
	if size <= 0 {
		size = 10
	}
	totalPages := (len(filtered) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page := f.CurrentPage
	if page < 1 {
		page = 1
	}

	// Out-of-range pages slice to empty rather than erroring.
	start := (page - 1) * size
	end := start + size
	var pageItems []internal.NormalizedItem
	if start >= 0 && start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		pageItems = filtered[start:end]
	}

	return Page{
		Items:       pageItems,
		TotalItems:  len(filtered),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

func matchesSearch(item internal.NormalizedItem, term string) bool {
	if term == "" {
		return true
	}
	fields := []string{
		util.Deref(item.Name),
		util.Deref(item.Description),
		util.Deref(item.Category),
		util.Deref(item.SerialNumber),
		util.Deref(item.PropertyNo),
		util.Deref(item.Brand),
		util.Deref(item.Model),
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesSource(item internal.NormalizedItem, filter string) bool {
	if filter == "" || filter == FilterAll {
		return true
	}
	return string(item.Type) == filter
}

// matchesStatus compares stored literals exactly; the backend mixes
// lowercase school statuses with cased DCP condition statuses.
func matchesStatus(item internal.NormalizedItem, filter string) bool {
	if filter == "" || filter == FilterAll {
		return true
	}
	status := item.EffectiveStatus()
	switch filter {
	case "available":
		return status == "available" || status == "Working"
	case "maintenance":
		return status == "maintenance" || status == "For Repair" || status == "For Part Replacement"
	default:
		return status == filter
	}
}

// sortItems orders by a single comparator; ties keep the base
// aggregation order (SliceStable).
func sortItems(items []internal.NormalizedItem, field, direction string) {
	cmp := comparator(field)
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func comparator(field string) func(a, b internal.NormalizedItem) int {
	switch field {
	case "created_at":
		return func(a, b internal.NormalizedItem) int {
			return compareTimes(a.CreatedAt, b.CreatedAt)
		}
	case "name":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(strings.ToLower(util.Deref(a.Name)), strings.ToLower(util.Deref(b.Name)))
		}
	case "description":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(strings.ToLower(util.Deref(a.Description)), strings.ToLower(util.Deref(b.Description)))
		}
	case "category":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(util.Deref(a.Category), util.Deref(b.Category))
		}
	case "status":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(a.EffectiveStatus(), b.EffectiveStatus())
		}
	case "serial_number":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(util.Deref(a.SerialNumber), util.Deref(b.SerialNumber))
		}
	case "source":
		return func(a, b internal.NormalizedItem) int {
			return strings.Compare(a.Source, b.Source)
		}
	case "quantity":
		return func(a, b internal.NormalizedItem) int {
			return compareFloats(a.Quantity, b.Quantity)
		}
	case "id":
		return func(a, b internal.NormalizedItem) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			default:
				return 0
			}
		}
	default: // assigned_at
		return func(a, b internal.NormalizedItem) int {
			return compareTimes(a.AssignedAt, b.AssignedAt)
		}
	}
}

// compareTimes treats missing values as epoch zero.
func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// compareFloats treats missing quantities as zero.
func compareFloats(a, b *float64) int {
	av, bv := 0.0, 0.0
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
