package extractor

import (
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/course"
)

// Layout is one page structure the extractor understands.
type Layout interface {
	// Name identifies the layout in results and logs.
	Name() string
	// Cards returns every course card of this layout below root.
	Cards(root *goquery.Selection) *goquery.Selection
	// Extract parses one card into zero or more units.
	Extract(card *goquery.Selection, index int) []Unit
}

// Unit is the outcome of parsing one card or one schedule block.
type Unit struct {
	Card   int
	Block  int // -1 when the layout has no blocks
	Record course.Record
	Err    error
}

// UnitError ties a parse failure to the card and block it came from.
type UnitError struct {
	Layout string
	Card   int
	Block  int
	Err    error
}

func (e *UnitError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("%s card %d: %v", e.Layout, e.Card, e.Err)
	}
	return fmt.Sprintf("%s card %d block %d: %v", e.Layout, e.Card, e.Block, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// guard runs parse and turns a panic into an error so one malformed unit
// cannot take down the run.
func guard(parse func() (course.Record, error)) (rec course.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()
	return parse()
}

// parseCredits converts a matched credit count, falling back to the default
// for anything that is not a positive integer.
func parseCredits(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return course.DefaultCredits
	}
	return n
}
