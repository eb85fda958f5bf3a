// Package cli implements the command-line interface for enrollmate.
//
// The cli package provides the Cobra-based CLI with commands to extract
// courses from a saved enrollment page, show the stored batch and repeat the
// handoff to the consumer app. Output can be rendered as text, JSON or an
// iCalendar timetable and sorted by page order, name, id or credits. It wires
// the config, shortname, extractor, storage and bridge packages together.
package cli
