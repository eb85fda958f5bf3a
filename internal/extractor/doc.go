// Package extractor turns the DOM of an enrollment page into course records.
//
// Two page layouts are understood. The structured portal layout groups one
// or more schedule blocks under each course card and spells meeting times as
// 24-hour spans per weekday. The generic layout (used by the demo site) has
// one card per course, identified by a "priceTab_" id prefix, with fields
// found through ordered selector fallbacks and free-text slot parsing.
//
// Extractor picks the layout once per run, walks every card in document
// order and isolates failures to the card or schedule block that caused
// them. A run either returns every record that parsed, or a failure naming
// why nothing could be returned.
package extractor
