package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/enrollmate/enrollmate/internal/calendar"
	"github.com/enrollmate/enrollmate/internal/config"
	"github.com/enrollmate/enrollmate/internal/course"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	StoredAt string          `json:"enrollmate_timestamp"`
	Count    int             `json:"count"`
	Courses  []course.Record `json:"enrollmate_courses"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, cfg config.Config, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result, cfg)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No courses found.")
		return nil
	}

	for _, rec := range result.Courses {
		fmt.Fprintf(w, "%-6s %s (%s)\n", rec.DisplayName, rec.CourseName, rec.UniqueID)
		fmt.Fprintf(w, "       %s\n", formatSlots(rec.Slots))
		if verbose {
			fmt.Fprintf(w, "       Staff: %s\n", rec.Staff)
			fmt.Fprintf(w, "       Credits: %d\n", rec.Credits)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d courses\n", result.Count)
	if verbose && result.StoredAt != "" {
		fmt.Fprintf(w, "Stored: %s\n", result.StoredAt)
	}
	return nil
}

func formatSlots(slots []course.Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.Day+" "+s.Time)
	}
	return strings.Join(parts, ", ")
}

// writeICS outputs the weekly timetable as an iCalendar file
func writeICS(w io.Writer, result *OutputResult, cfg config.Config) error {
	out, err := calendar.Generate(result.Courses, calendar.Options{
		TermStart: cfg.TermStartIn(cfg.Location()),
		Weeks:     cfg.Weeks,
		Location:  cfg.Location(),
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
