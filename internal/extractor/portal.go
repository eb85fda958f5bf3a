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
	PortalLayoutName = "portal"

	portalCardSelector    = ".filter-view_list.ng-scope"
	portalBlockSelector   = ".view-status_block"
	portalNameSelector    = ".enroll-num_sub"
	portalLabelSelector   = ".enroll-sub_label"
	portalDetailsSelector = ".stud-enroll_details"
	portalDateSelector    = ".enroll-date_details"
	portalDaySelector     = `div[ng-repeat*="daykey"]`
	portalHourSelector    = `span[ng-repeat*="hr in dayvalue.Hrs"]`

	// PortalPlaceholderTime is the time of the synthetic slot for blocks
	// without any parseable hours.
	PortalPlaceholderTime = "8-9"
)

var (
	// Label format: "19AI305 [3 Credits]"
	portalCodePattern    = regexp.MustCompile(`[A-Z0-9]+`)
	portalCreditsPattern = regexp.MustCompile(`(?i)\[(\d+)\s*Credits?\]`)
	portalDayPattern     = regexp.MustCompile(`(?i)(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday):`)
)

// Portal extracts course cards of the structured enrollment portal. Each
// schedule block inside a card becomes its own record.
type Portal struct {
	names *shortname.Table
}

// NewPortal creates the structured portal layout.
func NewPortal(names *shortname.Table) *Portal {
	return &Portal{names: names}
}

func (p *Portal) Name() string {
	return PortalLayoutName
}

func (p *Portal) Cards(root *goquery.Selection) *goquery.Selection {
	return root.Find(portalCardSelector)
}

// portalCourse holds the card-level fields shared by all schedule blocks.
type portalCourse struct {
	name    string
	display string
	code    string
	credits int
}

func (p *Portal) Extract(card *goquery.Selection, index int) []Unit {
	blocks := card.Find(portalBlockSelector)
	if blocks.Length() == 0 {
		logger.Warn("No schedule blocks in card", logger.Fields{"card": index})
		return nil
	}

	info := p.course(card, index)

	units := make([]Unit, 0, blocks.Length())
	blocks.Each(func(b int, block *goquery.Selection) {
		rec, err := guard(func() (course.Record, error) {
			return p.block(info, block, b), nil
		})
		if err != nil {
			err = &UnitError{Layout: PortalLayoutName, Card: index, Block: b, Err: err}
		}
		units = append(units, Unit{Card: index, Block: b, Record: rec, Err: err})
	})
	return units
}

func (p *Portal) course(card *goquery.Selection, index int) portalCourse {
	name := cleanText(card.Find(portalNameSelector).First().Text())
	if name == "" {
		name = fmt.Sprintf("Course %d", index+1)
	}

	label := cleanText(card.Find(portalLabelSelector).First().Text())

	code := portalCodePattern.FindString(label)
	if code == "" {
		code = fmt.Sprintf("COURSE%d", index)
	}

	credits := course.DefaultCredits
	if m := portalCreditsPattern.FindStringSubmatch(label); m != nil {
		credits = parseCredits(m[1])
	}

	return portalCourse{
		name:    name,
		display: shortname.Resolve(name, p.names),
		code:    code,
		credits: credits,
	}
}

func (p *Portal) block(info portalCourse, block *goquery.Selection, index int) course.Record {
	details := cleanText(block.Find(portalDetailsSelector).First().Text())
	id, staff := parseDetails(details, info.code, index)

	slots := portalSlots(block)
	if len(slots) == 0 {
		logger.Warn("No slots found, adding placeholder", logger.Fields{"unique_id": id})
	}

	return course.Record{
		UniqueID:    id,
		CourseName:  info.name,
		DisplayName: info.display,
		Staff:       staff,
		Credits:     info.credits,
		Slots:       normalize.EnsureSlots(slots, PortalPlaceholderTime),
	}
}

// parseDetails reads the unique id and staff name from a details line such
// as "UG - 25, T1-Q5, Maths - Premila S C".
func parseDetails(details, code string, block int) (id, staff string) {
	parts := strings.Split(details, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	id = fmt.Sprintf("%s-%d", code, block)
	if len(parts) > 1 && parts[1] != "" {
		id = parts[1]
	}

	staff = course.DefaultStaff
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if i := strings.LastIndex(last, "-"); i >= 0 {
			last = last[i+1:]
		}
		if s := strings.TrimSpace(last); s != "" {
			staff = s
		}
	}
	return id, staff
}

// portalSlots builds one slot per weekday section, merging all hour spans of
// that day into a single envelope range.
func portalSlots(block *goquery.Selection) []course.Slot {
	var slots []course.Slot
	block.Find(portalDateSelector).Each(func(_ int, dates *goquery.Selection) {
		dates.Find(portalDaySelector).Each(func(_ int, day *goquery.Selection) {
			m := portalDayPattern.FindStringSubmatch(day.Text())
			if m == nil {
				return
			}

			env := normalize.NewEnvelope()
			day.Find(portalHourSelector).Each(func(_ int, span *goquery.Selection) {
				env.Add(strings.TrimSpace(span.Text()))
			})

			if tr, ok := env.Range(); ok {
				slots = append(slots, course.Slot{Day: normalize.CanonicalDay(m[1]), Time: tr})
			}
		})
	})
	return slots
}
