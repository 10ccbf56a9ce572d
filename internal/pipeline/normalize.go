package pipeline

import (
	"time"

	"myitems/internal"
	"myitems/internal/util"
)

// NormalizeSchool maps a school inventory record to the unified shape.
// Fields pass through unchanged; assignedAt falls back to created_at.
// The input record is never mutated.
func NormalizeSchool(raw internal.RawSchoolItem) internal.NormalizedItem {
	return internal.NormalizedItem{
		ID:              raw.ID,
		Type:            internal.SourceSchool,
		Source:          internal.SourceSchool.Label(),
		Name:            raw.Name,
		Description:     raw.Description,
		Category:        raw.Category,
		SerialNumber:    raw.SerialNumber,
		Brand:           raw.Brand,
		Model:           raw.Model,
		Quantity:        raw.Quantity,
		UnitOfMeasure:   raw.UnitOfMeasure,
		Status:          raw.Status,
		ConditionStatus: raw.ConditionStatus,
		PropertyNo:      raw.PropertyNo,
		Location:        raw.Location,
		UnitPrice:       raw.UnitPrice,
		Notes:           raw.Notes,
		Remarks:         raw.Remarks,
		ImagePath:       raw.ImagePath,
		AssignedAt:      assignedAt(raw.AssignedAt, raw.CreatedAt),
		CreatedAt:       derefTime(raw.CreatedAt),
		UpdatedAt:       derefTime(raw.UpdatedAt),
	}
}

// NormalizeDCP maps a DCP package record to the unified shape, applying
// the DCP aliases: description stands in for name, manufacturer for
// brand. Category defaults to "Uncategorized" and a missing serial is
// baked in as "N/A" — school items leave absence to the render layer.
func NormalizeDCP(raw internal.RawDCPItem) internal.NormalizedItem {
	name := raw.Description
	if name == nil {
		name = raw.Name
	}
	brand := raw.Manufacturer
	if brand == nil {
		brand = raw.Brand
	}
	category := raw.Category
	if category == nil {
		category = util.StringPtr("Uncategorized")
	}
	serial := raw.SerialNumber
	if serial == nil {
		serial = util.StringPtr("N/A")
	}

	return internal.NormalizedItem{
		ID:                raw.ID,
		Type:              internal.SourceDCP,
		Source:            internal.SourceDCP.Label(),
		Name:              name,
		Description:       raw.Description,
		Category:          category,
		SerialNumber:      serial,
		Brand:             brand,
		Model:             raw.Model,
		Quantity:          raw.Quantity,
		AvailableQuantity: raw.AvailableQuantity,
		UnitOfMeasure:     raw.UnitOfMeasure,
		Status:            raw.Status,
		ConditionStatus:   raw.ConditionStatus,
		PropertyNo:        raw.PropertyNo,
		Location:          raw.Location,
		UnitValue:         raw.UnitValue,
		Notes:             raw.Notes,
		Remarks:           raw.Remarks,
		ImagePath:         raw.ImagePath,
		AssignedAt:        assignedAt(raw.AssignedAt, raw.CreatedAt),
		CreatedAt:         derefTime(raw.CreatedAt),
		UpdatedAt:         derefTime(raw.UpdatedAt),
	}
}

// assignedAt is computed once at normalization time and never recomputed.
func assignedAt(assigned, created *time.Time) time.Time {
	if assigned != nil {
		return *assigned
	}
	return derefTime(created)
}

func derefTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return *v
}
