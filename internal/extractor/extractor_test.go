package extractor

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/shortname"
)

func loadFixture(t *testing.T, name string) *goquery.Selection {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc.Selection
}

func parseHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc.Selection
}

func assertInvariants(t *testing.T, records []course.Record) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range records {
		if len(r.Slots) == 0 {
			t.Errorf("record %s has no slots", r.UniqueID)
		}
		if r.Credits < 1 {
			t.Errorf("record %s has credits %d", r.UniqueID, r.Credits)
		}
		if seen[r.UniqueID] {
			t.Errorf("duplicate unique id %s", r.UniqueID)
		}
		seen[r.UniqueID] = true
	}
}

func TestExtract_Portal(t *testing.T) {
	root := loadFixture(t, "portal.html")

	result := New(nil).Extract(root)
	if !result.Success {
		t.Fatalf("Extract() failed: %s", result.Error)
	}

	want := []course.Record{
		{
			UniqueID:    "T1-Q5",
			CourseName:  "Linear Algebra",
			DisplayName: "LA",
			Staff:       "Premila S C",
			Credits:     4,
			Slots: []course.Slot{
				{Day: "Monday", Time: "9-2"},
				{Day: "Thursday", Time: "2-3"},
			},
		},
		{
			UniqueID:    "T2-Q1",
			CourseName:  "Linear Algebra",
			DisplayName: "LA",
			Staff:       "Ravi Kumar",
			Credits:     4,
			Slots:       []course.Slot{{Day: "Friday", Time: "8-9"}},
		},
		{
			UniqueID:    "19CS302-0",
			CourseName:  "Advanced Data Structures",
			DisplayName: "ADS",
			Staff:       "TBA",
			Credits:     3,
			Slots:       []course.Slot{{Day: "Monday", Time: PortalPlaceholderTime}},
		},
	}

	if !reflect.DeepEqual(result.Courses, want) {
		t.Errorf("Extract() courses =\n%+v\nwant\n%+v", result.Courses, want)
	}
	if result.Count != len(want) {
		t.Errorf("Count = %d, want %d", result.Count, len(want))
	}
	if result.Layout != PortalLayoutName {
		t.Errorf("Layout = %q, want %q", result.Layout, PortalLayoutName)
	}
	if result.Message != "Successfully extracted 3 courses" {
		t.Errorf("Message = %q", result.Message)
	}
	assertInvariants(t, result.Courses)
}

func TestExtract_Demo(t *testing.T) {
	root := loadFixture(t, "demo.html")

	result := New(nil).Extract(root)
	if !result.Success {
		t.Fatalf("Extract() failed: %s", result.Error)
	}

	want := []course.Record{
		{
			UniqueID:    "CS101",
			CourseName:  "Database Management Systems",
			DisplayName: "DMS",
			Staff:       "Dr. Anita Rao",
			Credits:     4,
			Slots: []course.Slot{
				{Day: "Monday", Time: "8-10"},
				{Day: "Wednesday", Time: "10-12"},
				{Day: "Thursday", Time: "1-3"},
			},
		},
		{
			UniqueID:    "MA205",
			CourseName:  "Probability Theory",
			DisplayName: "PT",
			Staff:       "TBA",
			Credits:     3,
			Slots: []course.Slot{
				{Day: "Tuesday", Time: "9-11"},
				{Day: "Friday", Time: "2-4"},
			},
		},
		{
			UniqueID:    "HS110",
			CourseName:  "Technical Writing",
			DisplayName: "TW",
			Staff:       "TBA",
			Credits:     3,
			Slots:       []course.Slot{{Day: "Monday", Time: DemoPlaceholderTime}},
		},
	}

	if !reflect.DeepEqual(result.Courses, want) {
		t.Errorf("Extract() courses =\n%+v\nwant\n%+v", result.Courses, want)
	}
	if result.Layout != DemoLayoutName {
		t.Errorf("Layout = %q, want %q", result.Layout, DemoLayoutName)
	}
	assertInvariants(t, result.Courses)
}

func TestExtract_DemoUsesShortNameTable(t *testing.T) {
	root := loadFixture(t, "demo.html")

	result := New(shortname.Bundled()).Extract(root)
	if !result.Success {
		t.Fatalf("Extract() failed: %s", result.Error)
	}
	if got := result.Courses[0].DisplayName; got != "DBMS" {
		t.Errorf("DisplayName = %q, want DBMS", got)
	}
	// An explicit display element wins over the table.
	if got := result.Courses[1].DisplayName; got != "PT" {
		t.Errorf("DisplayName = %q, want PT", got)
	}
}

func TestExtract_DemoSplitHourMarkup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []course.Slot
	}{
		{
			name: "slot element with hours in spans",
			body: `<div class="slot">Mon <span>9</span>-<span>10</span></div>`,
			want: []course.Slot{{Day: "Monday", Time: "9-10"}},
		},
		{
			name: "card scan with end hour in bold",
			body: `<p>Meets Wed 9-<b>11</b></p>`,
			want: []course.Slot{{Day: "Wednesday", Time: "9-11"}},
		},
		{
			name: "several slot elements with inline hours",
			body: `<span class="time-slot">Tue <b>1</b>-<b>3</b></span><span class="time-slot">Thu 1-3</span>`,
			want: []course.Slot{{Day: "Tuesday", Time: "1-3"}, {Day: "Thursday", Time: "1-3"}},
		},
		{
			name: "day and hours in separate blocks",
			body: `<p>Fri</p><p>2-4</p>`,
			want: []course.Slot{{Day: "Friday", Time: "2-4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<div id="priceTab_A1"><h3>Algorithms</h3>` + tt.body + `</div>`
			result := New(nil).Extract(parseHTML(t, html))
			if !result.Success {
				t.Fatalf("Extract() failed: %s", result.Error)
			}
			if got := result.Courses[0].Slots; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("slots = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantErr error
	}{
		{
			name:    "no cards in either layout",
			html:    `<html><body><div class="course">Linear Algebra</div></body></html>`,
			wantErr: ErrNoCards,
		},
		{
			name:    "empty page",
			html:    ``,
			wantErr: ErrNoCards,
		},
		{
			name:    "every demo card fails",
			html:    `<div id="priceTab_"><h3>Nameless</h3></div><div id="priceTab_"><h3>Also nameless</h3></div>`,
			wantErr: ErrNoCourseData,
		},
		{
			name:    "portal cards without schedule blocks",
			html:    `<div class="filter-view_list ng-scope"><div class="enroll-num_sub">Seminar</div></div>`,
			wantErr: ErrNoCourseData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(nil).Extract(parseHTML(t, tt.html))

			if result.Success {
				t.Fatal("Extract() succeeded, want failure")
			}
			if !errors.Is(result.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", result.Err, tt.wantErr)
			}
			if result.Error != tt.wantErr.Error() {
				t.Errorf("Error = %q, want %q", result.Error, tt.wantErr.Error())
			}
			if len(result.Courses) != 0 {
				t.Errorf("Courses = %+v, want none", result.Courses)
			}
		})
	}

	if ErrNoCards.Error() == ErrNoCourseData.Error() {
		t.Error("no-cards and no-data failures must be distinguishable")
	}
}

func TestExtract_PartialFailure(t *testing.T) {
	html := `
		<div id="priceTab_A1"><h3>Compiler Design</h3><p>Mon 9-10</p></div>
		<div id="priceTab_"><h3>Broken</h3></div>
		<div id="priceTab_A1"><h3>Compiler Design Lab</h3></div>
		<div id="priceTab_B2"><h3>Operating Systems</h3></div>
	`

	result := New(nil).Extract(parseHTML(t, html))
	if !result.Success {
		t.Fatalf("Extract() failed: %s", result.Error)
	}

	var ids []string
	for _, r := range result.Courses {
		ids = append(ids, r.UniqueID)
	}
	if want := []string{"A1", "B2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if result.Failures != 2 {
		t.Errorf("Failures = %d, want 2", result.Failures)
	}
	if result.Count != len(result.Courses) {
		t.Errorf("Count = %d, want %d", result.Count, len(result.Courses))
	}
	assertInvariants(t, result.Courses)
}

func TestExtract_PrefersPortalLayout(t *testing.T) {
	html := `
		<div id="priceTab_X1"><h3>Demo course</h3></div>
		<div class="filter-view_list ng-scope">
			<div class="enroll-num_sub">Portal course</div>
			<div class="view-status_block"><div class="stud-enroll_details">UG, P-1, Staff</div></div>
		</div>
	`

	result := New(nil).Extract(parseHTML(t, html))
	if result.Layout != PortalLayoutName {
		t.Fatalf("Layout = %q, want %q", result.Layout, PortalLayoutName)
	}
	if len(result.Courses) != 1 || result.Courses[0].UniqueID != "P-1" {
		t.Errorf("Courses = %+v, want single P-1 record", result.Courses)
	}
	if result.Courses[0].Staff != "Staff" {
		t.Errorf("Staff = %q, want Staff", result.Courses[0].Staff)
	}
}

// panicLayout fails on every odd card.
type panicLayout struct{}

func (panicLayout) Name() string { return "panicky" }

func (panicLayout) Cards(root *goquery.Selection) *goquery.Selection {
	return root.Find(".card")
}

func (panicLayout) Extract(card *goquery.Selection, index int) []Unit {
	if index%2 == 1 {
		panic("malformed markup")
	}
	return []Unit{{Card: index, Block: -1, Record: course.Record{
		UniqueID: card.AttrOr("data-id", ""),
		Credits:  3,
		Slots:    []course.Slot{{Day: "Monday", Time: "8-9"}},
	}}}
}

func TestExtract_RecoversFromPanics(t *testing.T) {
	html := `<div class="card" data-id="a"></div><div class="card" data-id="b"></div><div class="card" data-id="c"></div>`

	result := NewWithLayouts(panicLayout{}).Extract(parseHTML(t, html))
	if !result.Success {
		t.Fatalf("Extract() failed: %s", result.Error)
	}
	if result.Count != 2 || result.Failures != 1 {
		t.Errorf("Count = %d, Failures = %d, want 2 and 1", result.Count, result.Failures)
	}
}

func TestExtractHTML(t *testing.T) {
	e := New(nil)
	result, err := e.ExtractHTML(strings.NewReader(`<div id="priceTab_Z9"><h3>Ethics</h3><span class="slot">Sat 10-11</span></div>`))
	if err != nil {
		t.Fatalf("ExtractHTML() error = %v", err)
	}
	if !result.Success || result.Courses[0].Slots[0] != (course.Slot{Day: "Saturday", Time: "10-11"}) {
		t.Errorf("ExtractHTML() = %+v", result)
	}
}
