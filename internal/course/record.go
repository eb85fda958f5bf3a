package course

import (
	"errors"
	"fmt"
)

const (
	// DefaultStaff is used when no instructor can be found for an offering.
	DefaultStaff = "TBA"
	// DefaultCredits is used when the credit count is missing or unparseable.
	DefaultCredits = 3
)

var (
	ErrEmptyID        = errors.New("empty unique id")
	ErrNoSlots        = errors.New("no slots")
	ErrInvalidCredits = errors.New("credits must be at least 1")
)

// Slot is one weekly meeting time. Day is a full English weekday name and
// Time is an hour-only "<start>-<end>" range in 12-hour form.
type Slot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Record is one schedule offering of a course, in the shape the downstream
// consumer reads from storage.
type Record struct {
	UniqueID    string `json:"uniqueId"`
	CourseName  string `json:"courseName"`
	DisplayName string `json:"displayName"`
	Staff       string `json:"staff"`
	Credits     int    `json:"credits"`
	Slots       []Slot `json:"slots"`
}

// Validate checks the invariants every extracted record must satisfy.
func (r *Record) Validate() error {
	if r.UniqueID == "" {
		return ErrEmptyID
	}
	if r.Credits < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCredits, r.Credits)
	}
	if len(r.Slots) == 0 {
		return fmt.Errorf("%s: %w", r.UniqueID, ErrNoSlots)
	}
	return nil
}

// String returns a one-line summary used in logs and text output.
func (r *Record) String() string {
	return fmt.Sprintf("%s (%s)", r.CourseName, r.UniqueID)
}
