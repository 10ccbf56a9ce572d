package internal

import (
	"time"

	"myitems/internal/util"
)

type SourceType string

const (
	SourceSchool SourceType = "school"
	SourceDCP    SourceType = "dcp"
)

// Label returns the human-readable source name shown in reports.
func (s SourceType) Label() string {
	if s == SourceDCP {
		return "DCP Package Inventory"
	}
	return "School Inventory"
}

// RawSchoolItem mirrors a record from the school inventory endpoint.
// Optional backend fields stay pointers so absence survives normalization.
type RawSchoolItem struct {
	ID              int64
	PersonnelID     int64
	Name            *string
	Description     *string
	Category        *string
	SerialNumber    *string
	Brand           *string
	Model           *string
	Quantity        *float64
	UnitOfMeasure   *string
	Status          *string
	ConditionStatus *string
	PropertyNo      *string
	Location        *string
	UnitPrice       *float64
	Notes           *string
	Remarks         *string
	ImagePath       *string
	AssignedAt      *time.Time
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// RawDCPItem mirrors a record from the DCP package inventory endpoint.
// DCP records carry description/manufacturer where school records carry
// name/brand.
type RawDCPItem struct {
	ID                int64
	PersonnelID       int64
	Name              *string
	Description       *string
	Category          *string
	SerialNumber      *string
	Brand             *string
	Manufacturer      *string
	Model             *string
	Quantity          *float64
	AvailableQuantity *float64
	UnitOfMeasure     *string
	Status            *string
	ConditionStatus   *string
	PropertyNo        *string
	Location          *string
	UnitValue         *float64
	Notes             *string
	Remarks           *string
	ImagePath         *string
	AssignedAt        *time.Time
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
}

// NormalizedItem is the unified view model consumed by the view pipeline
// and the exporters. Items are never mutated after normalization; ID is
// unique only within its Type.
type NormalizedItem struct {
	ID                int64
	Type              SourceType
	Source            string
	Name              *string
	Description       *string
	Category          *string
	SerialNumber      *string
	Brand             *string
	Model             *string
	Quantity          *float64
	AvailableQuantity *float64
	UnitOfMeasure     *string
	Status            *string
	ConditionStatus   *string
	PropertyNo        *string
	Location          *string
	UnitPrice         *float64
	UnitValue         *float64
	Notes             *string
	Remarks           *string
	ImagePath         *string
	AssignedAt        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName resolves the render-time name fallback chain. The literal
// is applied here, not baked into the record.
func (i NormalizedItem) DisplayName() string {
	return util.FirstNonEmpty(util.Deref(i.Name), util.Deref(i.Description), "Inventory Item")
}

// EffectiveStatus resolves status falling back to conditionStatus.
func (i NormalizedItem) EffectiveStatus() string {
	return util.FirstNonEmpty(util.Deref(i.Status), util.Deref(i.ConditionStatus))
}

type Stats struct {
	TotalItems     int
	SchoolItems    int
	DCPItems       int
	AvailableItems int
}

// FetchRunRow is one recorded fetch cycle in the history store.
type FetchRunRow struct {
	ID          int
	PersonnelID int64
	SchoolCount int
	DCPCount    int
	Status      string
	CreatedAt   string
}

// ExportRecord is one recorded export artifact in the history store.
type ExportRecord struct {
	ID        int
	Kind      string
	Path      string
	RowCount  int
	CreatedAt string
}

// ReportRow is the flat, pre-formatted row shared by the CSV, PDF and
// XLSX exporters.
type ReportRow struct {
	Source       string
	Name         string
	Category     string
	SerialNumber string
	Quantity     string
	Unit         string
	Status       string
	Brand        string
	Model        string
	AssignedDate string
}
