// Package course defines the canonical course record produced by extraction.
//
// A Record describes one schedule offering of a course: its identity, the
// display abbreviation, the instructor, the credit count and the weekly
// meeting slots. Records are created fresh for every extraction run and are
// never mutated after they pass Validate.
package course
