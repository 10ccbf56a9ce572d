package pipeline

import "myitems/internal"

// Aggregate keeps only records assigned to personnelID, normalizes the
// survivors and concatenates school items first, then DCP items. The
// concatenation order is the base ordering for the whole view pipeline.
func Aggregate(personnelID int64, school []internal.RawSchoolItem, dcp []internal.RawDCPItem) []internal.NormalizedItem {
	out := make([]internal.NormalizedItem, 0, len(school)+len(dcp))
	for _, raw := range school {
		if raw.PersonnelID != personnelID {
			continue
		}
		out = append(out, NormalizeSchool(raw))
	}
	for _, raw := range dcp {
		if raw.PersonnelID != personnelID {
			continue
		}
		out = append(out, NormalizeDCP(raw))
	}
	return out
}

// ComputeStats summarizes a normalized list for the dashboard header.
// Available counts both the "available" and "Working" status literals.
func ComputeStats(items []internal.NormalizedItem) internal.Stats {
	stats := internal.Stats{TotalItems: len(items)}
	for _, item := range items {
		switch item.Type {
		case internal.SourceSchool:
			stats.SchoolItems++
		case internal.SourceDCP:
			stats.DCPItems++
		}
		status := item.EffectiveStatus()
		if status == "available" || status == "Working" {
			stats.AvailableItems++
		}
	}
	return stats
}
