package extractor

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/shortname"
)

var (
	// ErrNoCards means no layout found any course card on the page.
	ErrNoCards = errors.New("no course cards found")
	// ErrNoCourseData means cards were found but none produced a record.
	ErrNoCourseData = errors.New("failed to extract any course data")
	// ErrDuplicateID means a unit repeated a unique id already extracted in
	// the same run.
	ErrDuplicateID = errors.New("duplicate unique id")
	// ErrParse wraps malformed markup inside a single card or block.
	ErrParse = errors.New("parse error")
)

// Result is the outcome of one extraction run.
type Result struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Layout  string `json:"layout,omitempty"`

	// Courses holds every record that parsed, in document order.
	Courses []course.Record `json:"-"`
	// Failures counts cards and blocks that were skipped.
	Failures int `json:"-"`
	// Err is ErrNoCards or ErrNoCourseData for failed runs.
	Err error `json:"-"`
}

func failure(err error, layout string, failures int) Result {
	return Result{Success: false, Error: err.Error(), Layout: layout, Failures: failures, Err: err}
}

// Extractor selects a layout for a page and extracts all of its courses.
type Extractor struct {
	layouts []Layout
}

// New creates an extractor for the structured portal and the generic demo
// layouts, in that detection order. names is used for display names and may
// be nil.
func New(names *shortname.Table) *Extractor {
	return NewWithLayouts(NewPortal(names), NewDemo(names))
}

// NewWithLayouts creates an extractor that tries layouts in the given order.
func NewWithLayouts(layouts ...Layout) *Extractor {
	return &Extractor{layouts: layouts}
}

// Detect returns the first layout that finds at least one card under root.
func (e *Extractor) Detect(root *goquery.Selection) (Layout, *goquery.Selection) {
	for _, l := range e.layouts {
		cards := l.Cards(root)
		logger.Debug("Layout probe", logger.Fields{"layout": l.Name(), "cards": cards.Length()})
		if cards.Length() > 0 {
			return l, cards
		}
	}
	return nil, nil
}

// Extract walks every card of the detected layout and collects the records
// that parsed. Failures of single cards or blocks are logged and skipped.
func (e *Extractor) Extract(root *goquery.Selection) Result {
	start := time.Now()
	defer func() {
		logger.RecordTiming("extract.run", time.Since(start))
	}()

	layout, cards := e.Detect(root)
	if layout == nil {
		logger.Warn("No course cards found", nil)
		return failure(ErrNoCards, "", 0)
	}
	logger.AddCounter("extract.cards", int64(cards.Length()))
	logger.Info("Starting course extraction", logger.Fields{
		"layout": layout.Name(),
		"cards":  cards.Length(),
	})

	var (
		records  []course.Record
		failures int
		seen     = make(map[string]bool)
	)

	cards.Each(func(i int, card *goquery.Selection) {
		for _, u := range extractCard(layout, card, i) {
			err := u.Err
			if err == nil {
				err = u.Record.Validate()
			}
			if err == nil && seen[u.Record.UniqueID] {
				err = fmt.Errorf("%w: %s", ErrDuplicateID, u.Record.UniqueID)
			}
			if err != nil {
				failures++
				logger.IncrCounter("extract.failures")
				logger.Error("Skipping unparseable course", logger.Fields{
					"layout": layout.Name(),
					"card":   u.Card,
					"block":  u.Block,
				}, err)
				continue
			}

			seen[u.Record.UniqueID] = true
			records = append(records, u.Record)
			logger.Debug("Extracted course", logger.Fields{
				"unique_id": u.Record.UniqueID,
				"course":    u.Record.CourseName,
				"slots":     len(u.Record.Slots),
			})
		}
	})

	if len(records) == 0 {
		return failure(ErrNoCourseData, layout.Name(), failures)
	}

	logger.AddCounter("extract.records", int64(len(records)))
	logger.Info("Extraction finished", logger.Fields{
		"layout":   layout.Name(),
		"records":  len(records),
		"failures": failures,
	})

	return Result{
		Success:  true,
		Count:    len(records),
		Message:  fmt.Sprintf("Successfully extracted %d courses", len(records)),
		Layout:   layout.Name(),
		Courses:  records,
		Failures: failures,
	}
}

// extractCard runs one card through the layout. A panic escaping the layout
// fails the whole card.
func extractCard(layout Layout, card *goquery.Selection, index int) (units []Unit) {
	defer func() {
		if r := recover(); r != nil {
			err := &UnitError{Layout: layout.Name(), Card: index, Block: -1, Err: fmt.Errorf("%w: %v", ErrParse, r)}
			units = []Unit{{Card: index, Block: -1, Err: err}}
		}
	}()
	return layout.Extract(card, index)
}

// ExtractHTML parses an HTML document and extracts its courses.
func (e *Extractor) ExtractHTML(r io.Reader) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parsing HTML: %w", err)
	}
	return e.Extract(doc.Selection), nil
}
