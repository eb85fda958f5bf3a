package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/normalize"
)

const (
	// DefaultWeeks is the number of weekly occurrences per slot.
	DefaultWeeks = 16
	// DefaultName is the calendar display name.
	DefaultName = "EnrollMate Timetable"

	productID = "-//EnrollMate//enrollmate//EN"
	uidDomain = "enrollmate"

	utcTimeFormat   = "20060102T150405Z"
	localTimeFormat = "20060102T150405"
)

// ErrNoEvents is returned when no slot could be placed on the calendar.
var ErrNoEvents = errors.New("no schedulable slots")

var hoursPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)

// Options controls the export.
type Options struct {
	// TermStart is any day in the first teaching week. Zero means today.
	TermStart time.Time
	// Weeks is the number of occurrences; values below 1 use DefaultWeeks.
	Weeks int
	// Location is the time zone of the slot times; nil means time.Local.
	// A named zone is written as TZID so weekly repeats keep their wall-clock
	// time across DST changes. UTC and time.Local are written as UTC times.
	Location *time.Location
	// Name is the calendar display name.
	Name string
	// Now stamps DTSTAMP; nil means time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.TermStart.IsZero() {
		o.TermStart = time.Now().In(o.Location)
	}
	if o.Weeks < 1 {
		o.Weeks = DefaultWeeks
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// SlotHours converts a slot time like "9-2" to 24-hour start and end hours.
func SlotHours(slotTime string) (start, end int, ok bool) {
	m := hoursPattern.FindStringSubmatch(slotTime)
	if m == nil {
		return 0, 0, false
	}
	start, _ = strconv.Atoi(m[1])
	end, _ = strconv.Atoi(m[2])
	if start < 1 || start > 12 || end < 1 || end > 12 {
		return 0, 0, false
	}
	start, end = afternoon(start), afternoon(end)
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func afternoon(h int) int {
	if h >= 1 && h <= 7 {
		return h + 12
	}
	return h
}

// firstOccurrence returns the first date on or after the Monday of the
// term start week that falls on weekday.
func firstOccurrence(termStart time.Time, weekday time.Weekday) time.Time {
	day := time.Date(termStart.Year(), termStart.Month(), termStart.Day(), 0, 0, 0, 0, termStart.Location())
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (int(weekday)+6)%7)
}

// Build creates a calendar with one recurring event per slot. Slots with an
// unknown day or an unreadable time are skipped.
func Build(records []course.Record, opts Options) (*ics.Calendar, error) {
	opts = opts.withDefaults()
	termStart := opts.TermStart.In(opts.Location)
	stamp := opts.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(opts.Name)

	events := 0
	for _, rec := range records {
		for i, slot := range rec.Slots {
			idx := normalize.DayIndex(slot.Day)
			start, end, ok := SlotHours(slot.Time)
			if idx < 0 || !ok {
				logger.Warn("Skipping slot that cannot be scheduled", logger.Fields{
					"course": rec.UniqueID,
					"day":    slot.Day,
					"time":   slot.Time,
				})
				continue
			}

			date := firstOccurrence(termStart, time.Weekday((idx+1)%7))
			startAt := time.Date(date.Year(), date.Month(), date.Day(), start, 0, 0, 0, opts.Location)
			endAt := time.Date(date.Year(), date.Month(), date.Day(), end, 0, 0, 0, opts.Location)

			event := cal.AddEvent(fmt.Sprintf("%s-%d@%s", rec.UniqueID, i, uidDomain))
			event.SetDtStampTime(stamp)
			setTime(event, ics.ComponentPropertyDtStart, startAt)
			setTime(event, ics.ComponentPropertyDtEnd, endAt)
			event.SetSummary(summary(rec))
			event.SetDescription(description(rec))
			event.SetProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", opts.Weeks))
			events++
		}
	}

	if events == 0 {
		return nil, ErrNoEvents
	}
	logger.AddCounter("calendar.events", int64(events))
	return cal, nil
}

// setTime writes t as a zoned local time when its location has an IANA
// name, otherwise as UTC.
func setTime(event *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	if tzid := zoneID(t.Location()); tzid != "" {
		event.SetProperty(prop, t.Format(localTimeFormat), &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{tzid}})
		return
	}
	event.SetProperty(prop, t.UTC().Format(utcTimeFormat))
}

func zoneID(loc *time.Location) string {
	switch name := loc.String(); name {
	case "", "UTC", "Local":
		return ""
	default:
		return name
	}
}

// Generate renders the calendar for records as iCalendar text.
func Generate(records []course.Record, opts Options) (string, error) {
	cal, err := Build(records, opts)
	if err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

func summary(rec course.Record) string {
	if rec.DisplayName == "" || rec.DisplayName == rec.CourseName {
		return rec.CourseName
	}
	return rec.DisplayName + " - " + rec.CourseName
}

func description(rec course.Record) string {
	return fmt.Sprintf("Course %s taught by %s. %d credits.", rec.UniqueID, rec.Staff, rec.Credits)
}
