package shortname

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var stopWords = map[string]bool{
	"the": true, "of": true, "in": true, "to": true, "and": true,
	"for": true, "with": true, "using": true, "a": true, "an": true,
}

// Resolve returns the short name for a course. The first rule that matches
// wins:
//
//  1. exact key
//  2. case-insensitive key
//  3. the name contains a key, or a key contains the name (table order)
//  4. a label generated by Generate
//
// A nil table behaves like an empty one.
func Resolve(name string, table *Table) string {
	if short, ok := table.Lookup(name); ok {
		return short
	}

	var found string
	fold := cases.Fold()
	folded := fold.String(name)
	table.each(func(full, short string) bool {
		if fold.String(full) == folded {
			found = short
			return true
		}
		return false
	})
	if found != "" {
		return found
	}

	if name != "" {
		table.each(func(full, short string) bool {
			if strings.Contains(name, full) || strings.Contains(full, name) {
				found = short
				return true
			}
			return false
		})
		if found != "" {
			return found
		}
	}

	return Generate(name)
}

// Generate builds a label from the name alone. Two to four capital letters
// form an acronym; otherwise the initials of the first four words that are
// not stop words; otherwise the first three characters, upper-cased.
func Generate(name string) string {
	var capitals []rune
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			capitals = append(capitals, r)
		}
	}
	if len(capitals) >= 2 && len(capitals) <= 4 {
		return string(capitals)
	}

	var words []string
	for _, w := range strings.Fields(name) {
		if !stopWords[strings.ToLower(w)] {
			words = append(words, w)
		}
	}
	if len(words) > 0 {
		if len(words) > 4 {
			words = words[:4]
		}
		var b strings.Builder
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			b.WriteRune(unicode.ToUpper(r))
		}
		return b.String()
	}

	if utf8.RuneCountInString(name) > 3 {
		name = string([]rune(name)[:3])
	}
	return strings.ToUpper(name)
}
