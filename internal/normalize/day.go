package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Weekdays lists the canonical day names in calendar order, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// dayTokens maps case-folded day tokens to canonical names.
var dayTokens = map[string]string{
	"monday": "Monday", "mon": "Monday", "m": "Monday",
	"tuesday": "Tuesday", "tue": "Tuesday", "tues": "Tuesday", "t": "Tuesday",
	"wednesday": "Wednesday", "wed": "Wednesday", "w": "Wednesday",
	"thursday": "Thursday", "thu": "Thursday", "thur": "Thursday", "thurs": "Thursday", "th": "Thursday",
	"friday": "Friday", "fri": "Friday", "f": "Friday",
	"saturday": "Saturday", "sat": "Saturday", "s": "Saturday",
	"sunday": "Sunday", "sun": "Sunday",
}

// CanonicalDay returns the full weekday name for a full or abbreviated day
// token. Tokens it does not recognize are returned unchanged.
func CanonicalDay(token string) string {
	key := cases.Fold().String(strings.TrimSuffix(strings.TrimSpace(token), ":"))
	if full, ok := dayTokens[key]; ok {
		return full
	}
	return token
}

// IsWeekday reports whether day is one of the seven canonical names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// DayIndex returns the position of a canonical day in Weekdays (Monday = 0),
// or -1 for anything else.
func DayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
