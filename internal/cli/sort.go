package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/enrollmate/enrollmate/internal/course"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDOM     SortOrder = "dom"
	SortByName    SortOrder = "name"
	SortByID      SortOrder = "id"
	SortByCredits SortOrder = "credits"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByDOM, SortByName, SortByID, SortByCredits:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'dom', 'name', 'id' or 'credits')", s)
	}
}

// sortRecords returns a sorted copy of records. SortByDOM keeps page order.
func sortRecords(records []course.Record, order SortOrder) []course.Record {
	sorted := append([]course.Record(nil), records...)

	switch order {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return compareByName(sorted[i], sorted[j])
		})
	case SortByID:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].UniqueID < sorted[j].UniqueID
		})
	case SortByCredits:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Credits != sorted[j].Credits {
				return sorted[i].Credits > sorted[j].Credits
			}
			// If credits are equal, sort by name
			return compareByName(sorted[i], sorted[j])
		})
	}
	return sorted
}

// compareByName compares two records by course name, ignoring case
func compareByName(i, j course.Record) bool {
	ni, nj := strings.ToLower(i.CourseName), strings.ToLower(j.CourseName)
	if ni != nj {
		return ni < nj
	}
	return i.UniqueID < j.UniqueID
}
