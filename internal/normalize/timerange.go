package normalize

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/enrollmate/enrollmate/internal/course"
)

var (
	simpleRangePattern = regexp.MustCompile(`(\d{1,2})-(\d{1,2})`)

	// spanPattern matches one 24-hour "HH:MM-HH:MM" span.
	spanPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

	// slotDayPattern matches full names and three-letter forms in any case.
	slotDayPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)\b`)

	// shortDayPattern matches the one- and two-letter forms. They are only
	// accepted capitalized so ordinary words do not read as days.
	shortDayPattern = regexp.MustCompile(`\b(Th|M|T|W|F|S)\b`)

	scanPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)[:\s,]*(\d{1,2})-(\d{1,2})`)
)

// PlaceholderDay is the day of the synthetic slot added to records without
// any parseable meeting time.
const PlaceholderDay = "Monday"

// SimpleRange returns the first "h-h" substring of text verbatim.
func SimpleRange(text string) (string, bool) {
	m := simpleRangePattern.FindString(text)
	return m, m != ""
}

// To12Hour converts a 24-hour clock hour to its 12-hour form.
// 0 becomes 12 and hours past noon lose 12.
func To12Hour(hour int) int {
	switch {
	case hour == 0:
		return 12
	case hour > 12:
		return hour - 12
	default:
		return hour
	}
}

// Envelope accumulates 24-hour spans of a single day and reports the range
// from the earliest start hour to the latest end hour. Minutes are dropped
// and gaps between spans are not preserved.
type Envelope struct {
	minStart int
	maxEnd   int
}

// NewEnvelope returns an empty envelope.
func NewEnvelope() *Envelope {
	return &Envelope{minStart: 24, maxEnd: 0}
}

// Add parses one "HH:MM-HH:MM" span and widens the envelope with it.
// It reports whether the span was valid.
func (e *Envelope) Add(span string) bool {
	m := spanPattern.FindStringSubmatch(span)
	if m == nil {
		return false
	}
	start, err := strconv.Atoi(m[1])
	if err != nil || start > 23 {
		return false
	}
	end, err := strconv.Atoi(m[3])
	if err != nil || end > 24 {
		return false
	}

	if start < e.minStart {
		e.minStart = start
	}
	if end > e.maxEnd {
		e.maxEnd = end
	}
	return true
}

// Range returns the envelope as "<start12>-<end12>". ok is false when no
// valid span was added.
func (e *Envelope) Range() (string, bool) {
	if e.minStart >= 24 || e.maxEnd <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d-%d", To12Hour(e.minStart), To12Hour(e.maxEnd)), true
}

// EnvelopeRange merges spans with an Envelope.
func EnvelopeRange(spans []string) (string, bool) {
	env := NewEnvelope()
	for _, s := range spans {
		env.Add(s)
	}
	return env.Range()
}

// ParseSlotText reads a single slot from text such as "Mon: 10-12" or
// "Th 1-3". Both a day token and an hour range must be present. Short
// tokens are only used when the text has no full or three-letter day name.
func ParseSlotText(text string) (course.Slot, bool) {
	day := slotDayPattern.FindString(text)
	if day == "" {
		day = shortDayPattern.FindString(text)
	}
	if day == "" {
		return course.Slot{}, false
	}
	tr, ok := SimpleRange(text)
	if !ok {
		return course.Slot{}, false
	}
	return course.Slot{Day: CanonicalDay(day), Time: tr}, true
}

// ScanSlots finds every "<day>[:, ]<h>-<h>" occurrence in text, in order.
func ScanSlots(text string) []course.Slot {
	var slots []course.Slot
	for _, m := range scanPattern.FindAllStringSubmatch(text, -1) {
		slots = append(slots, course.Slot{
			Day:  CanonicalDay(m[1]),
			Time: m[2] + "-" + m[3],
		})
	}
	return slots
}

// EnsureSlots returns slots unchanged when non-empty, otherwise a single
// placeholder slot on PlaceholderDay at defaultTime.
func EnsureSlots(slots []course.Slot, defaultTime string) []course.Slot {
	if len(slots) > 0 {
		return slots
	}
	return []course.Slot{{Day: PlaceholderDay, Time: defaultTime}}
}
