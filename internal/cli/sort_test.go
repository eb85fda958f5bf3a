package cli

import (
	"testing"

	"github.com/enrollmate/enrollmate/internal/course"
)

func sortFixture() []course.Record {
	return []course.Record{
		{UniqueID: "T2-Q1", CourseName: "linear algebra", Credits: 4},
		{UniqueID: "CS101", CourseName: "Compiler Design", Credits: 3},
		{UniqueID: "T1-Q5", CourseName: "Linear Algebra", Credits: 4},
		{UniqueID: "HS110", CourseName: "Technical Writing", Credits: 2},
	}
}

func ids(records []course.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.UniqueID
	}
	return out
}

func TestSortRecords(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByDOM, []string{"T2-Q1", "CS101", "T1-Q5", "HS110"}},
		{SortByName, []string{"CS101", "T1-Q5", "T2-Q1", "HS110"}},
		{SortByID, []string{"CS101", "HS110", "T1-Q5", "T2-Q1"}},
		{SortByCredits, []string{"T1-Q5", "T2-Q1", "CS101", "HS110"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			input := sortFixture()
			got := ids(sortRecords(input, tt.order))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("sortRecords(%s) = %v, want %v", tt.order, got, tt.want)
				}
			}
			// The input keeps page order.
			if input[0].UniqueID != "T2-Q1" {
				t.Errorf("sortRecords modified its input: %v", ids(input))
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"dom", SortByDOM, false},
		{" Name ", SortByName, false},
		{"ID", SortByID, false},
		{"credits", SortByCredits, false},
		{"date", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
