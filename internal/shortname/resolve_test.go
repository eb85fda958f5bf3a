package shortname

import (
	"strings"
	"testing"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := Parse(strings.NewReader(`{
		"Data Structures and Algorithms": "DSA",
		"Machine Learning": "ML",
		"Deep Learning": "DL",
		"Learning": "LRN",
		"Linear Algebra": "LA"
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return table
}

func TestResolve(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name   string
		course string
		want   string
	}{
		{"exact match", "Machine Learning", "ML"},
		{"case-insensitive match", "LINEAR ALGEBRA", "LA"},
		{"name contains key", "Applied Machine Learning Lab", "ML"},
		{"key contains name", "Structures", "DSA"},
		{"first key in table order wins", "Deep Learning Lab", "DL"},
		{"shorter key matches when longer ones do not", "Learning Theory", "LRN"},
		{"generated acronym", "Advanced Data Structures", "ADS"},
		{"generated from words", "quantum computing basics", "QCB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.course, table); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.course, got, tt.want)
			}
		})
	}
}

func TestResolve_NilAndEmptyTable(t *testing.T) {
	if got := Resolve("Advanced Data Structures", nil); got != "ADS" {
		t.Errorf("Resolve() with nil table = %q, want ADS", got)
	}
	if got := Resolve("Advanced Data Structures", NewTable()); got != "ADS" {
		t.Errorf("Resolve() with empty table = %q, want ADS", got)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Advanced Data Structures", "ADS"},
		{"Introduction to the Theory of Computation", "ITC"},
		{"Principles of Economics", "PE"},
		{"engineering mathematics for computing with python", "EMCP"},
		{"advanced data structures", "ADS"},
		{"The Art And Craft Of Writing Prose", "ACWP"},
		{"MATHS", "M"},
		{"the", "THE"},
		{"ab", "A"},
		{"of", "OF"},
		{"Calculus", "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.name); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestGenerate_NeverEmpty(t *testing.T) {
	inputs := []string{"a", "of the", "Z", "x y z", "Mathematics", "ÉTUDES françaises"}
	for _, in := range inputs {
		if got := Generate(in); got == "" {
			t.Errorf("Generate(%q) returned empty string", in)
		}
	}
}
