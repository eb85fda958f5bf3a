package course

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRecord_Validate(t *testing.T) {
	valid := func() Record {
		return Record{
			UniqueID:    "T1-Q5",
			CourseName:  "Linear Algebra",
			DisplayName: "LA",
			Staff:       "Premila S C",
			Credits:     3,
			Slots:       []Slot{{Day: "Monday", Time: "9-10"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{
			name:   "valid record",
			mutate: func(r *Record) {},
		},
		{
			name:    "empty id",
			mutate:  func(r *Record) { r.UniqueID = "" },
			wantErr: ErrEmptyID,
		},
		{
			name:    "zero credits",
			mutate:  func(r *Record) { r.Credits = 0 },
			wantErr: ErrInvalidCredits,
		},
		{
			name:    "no slots",
			mutate:  func(r *Record) { r.Slots = nil },
			wantErr: ErrNoSlots,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecord_JSONFieldNames(t *testing.T) {
	r := Record{
		UniqueID:    "T1-Q5",
		CourseName:  "Linear Algebra",
		DisplayName: "LA",
		Staff:       DefaultStaff,
		Credits:     DefaultCredits,
		Slots:       []Slot{{Day: "Friday", Time: "2-4"}},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got := string(data)
	for _, key := range []string{`"uniqueId"`, `"courseName"`, `"displayName"`, `"staff"`, `"credits"`, `"slots"`, `"day"`, `"time"`} {
		if !strings.Contains(got, key) {
			t.Errorf("JSON %s missing key %s", got, key)
		}
	}
}
