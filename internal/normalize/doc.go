// Package normalize canonicalizes the free-form schedule text found on
// enrollment pages.
//
// It turns day tokens such as "Th", "Mon" or "friday" into full weekday names,
// pulls hour ranges out of text, merges several 24-hour spans of one day into a
// single 12-hour envelope range and scans arbitrary text for day/time pairs.
// Nothing in this package fails: unrecognized input passes through or yields
// no slot.
package normalize
