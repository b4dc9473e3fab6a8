package common

import (
	"strconv"
	"strings"
)

// ParseStringFloat converts a string-typed numeric field to a float pointer.
// The NPS API serializes latitude, longitude, and fee amounts as strings;
// empty or unparseable values return nil so callers can null-fill.
func ParseStringFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseStringInt converts a string-typed count field ("497") to an int.
// Returns 0 for empty or unparseable values.
func ParseStringInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// SplitCSV splits a comma-separated value ("ID,MT,WY") into trimmed parts.
// Empty input returns an empty slice, never nil, so the field serializes as [].
func SplitCSV(s string) []string {
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
