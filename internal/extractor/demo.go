package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/normalize"
	"github.com/enrollmate/enrollmate/internal/shortname"
)

const (
	DemoLayoutName = "demo"

	// DemoIDPrefix marks course cards on the demo site; the rest of the id is
	// the record's unique id.
	DemoIDPrefix = "priceTab_"

	// DemoPlaceholderTime is the time of the synthetic slot for cards without
	// any parseable slot.
	DemoPlaceholderTime = "8-10"
)

var (
	demoNameChain = Chain{
		".course-name", ".courseName", `[class*="course-name"]`,
		".course-title", `[class*="course-title"]`,
		"h3", "h4", ".title",
	}
	demoDisplayChain = Chain{
		".display-name", ".displayName", `[class*="display-name"]`,
		".short-name", `[class*="short"]`,
	}
	demoStaffChain = Chain{
		".staff", ".instructor", `[class*="staff"]`, `[class*="instructor"]`,
		".teacher", `[class*="teacher"]`, ".faculty", `[class*="faculty"]`,
	}
	demoCreditsChain = Chain{".credits", `[class*="credit"]`, `[class*="hour"]`}
	demoSlotChain    = Chain{
		".slot", ".time-slot", `[class*="slot"]`,
		".schedule", `[class*="schedule"]`,
		".timing", `[class*="timing"]`,
	}

	digitsPattern = regexp.MustCompile(`\d+`)
)

// Demo extracts the generic card layout used by the demo site. Every card
// yields exactly one record.
type Demo struct {
	names *shortname.Table
}

// NewDemo creates the generic layout.
func NewDemo(names *shortname.Table) *Demo {
	return &Demo{names: names}
}

func (d *Demo) Name() string {
	return DemoLayoutName
}

func (d *Demo) Cards(root *goquery.Selection) *goquery.Selection {
	return root.Find(fmt.Sprintf(`[id^="%s"]`, DemoIDPrefix))
}

func (d *Demo) Extract(card *goquery.Selection, index int) []Unit {
	rec, err := guard(func() (course.Record, error) {
		return d.card(card, index)
	})
	if err != nil {
		err = &UnitError{Layout: DemoLayoutName, Card: index, Block: -1, Err: err}
	}
	return []Unit{{Card: index, Block: -1, Record: rec, Err: err}}
}

func (d *Demo) card(card *goquery.Selection, index int) (course.Record, error) {
	id, _ := card.Attr("id")
	if !strings.HasPrefix(id, DemoIDPrefix) {
		return course.Record{}, fmt.Errorf("%w: card id %q lacks prefix %q", ErrParse, id, DemoIDPrefix)
	}
	id = strings.TrimPrefix(id, DemoIDPrefix)

	name := demoNameChain.TextOr(card, fmt.Sprintf("Course %d", index+1))

	display, ok := demoDisplayChain.Text(card)
	if !ok {
		display = shortname.Resolve(name, d.names)
	}

	credits := course.DefaultCredits
	if text, ok := demoCreditsChain.Text(card); ok {
		if m := digitsPattern.FindString(text); m != "" {
			credits = parseCredits(m)
		}
	}

	slots := demoSlots(card)
	if len(slots) == 0 {
		logger.Warn("No slots found, adding placeholder", logger.Fields{"unique_id": id})
	}

	return course.Record{
		UniqueID:    id,
		CourseName:  name,
		DisplayName: display,
		Staff:       demoStaffChain.TextOr(card, course.DefaultStaff),
		Credits:     credits,
		Slots:       normalize.EnsureSlots(slots, DemoPlaceholderTime),
	}, nil
}

// demoSlots parses dedicated slot elements first and falls back to scanning
// the whole card text.
func demoSlots(card *goquery.Selection) []course.Slot {
	slots, ok := First(demoSlotChain, card, func(matched *goquery.Selection) ([]course.Slot, bool) {
		var found []course.Slot
		matched.Each(func(_ int, s *goquery.Selection) {
			if slot, ok := normalize.ParseSlotText(cleanText(spacedText(s))); ok {
				found = append(found, slot)
			}
		})
		return found, len(found) > 0
	})
	if ok {
		return slots
	}
	return normalize.ScanSlots(spacedText(card))
}
