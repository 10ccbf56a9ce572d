package util

import "strings"

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

// Deref returns the pointed-to string, or "" for nil.
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
