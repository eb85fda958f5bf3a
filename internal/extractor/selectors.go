package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Chain is an ordered list of selectors. Lookups try each selector in turn
// and stop at the first one that yields a result.
type Chain []string

// Text returns the text of the first non-empty element matched by the
// earliest selector that matches one.
func (c Chain) Text(scope *goquery.Selection) (string, bool) {
	for _, sel := range c {
		var found string
		scope.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = cleanText(s.Text())
			return found == ""
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// TextOr is Text with a fallback value.
func (c Chain) TextOr(scope *goquery.Selection, fallback string) string {
	if text, ok := c.Text(scope); ok {
		return text
	}
	return fallback
}

// First returns the result of fn for the earliest selector whose matched
// elements make fn report ok.
func First[T any](c Chain, scope *goquery.Selection, fn func(*goquery.Selection) (T, bool)) (T, bool) {
	for _, sel := range c {
		matched := scope.Find(sel)
		if matched.Length() == 0 {
			continue
		}
		if v, ok := fn(matched); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// cleanText trims text and collapses inner runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blockElements end a line of rendered text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// spacedText returns the text of s with a space at every block element
// boundary, so "<h3>Data</h3><p>Mon 9-10</p>" reads as "Data Mon 9-10"
// while inline markup such as "9-<b>11</b>" stays joined as "9-11".
// Script and style contents are skipped.
func spacedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		block := false
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			block = blockElements[n.Data]
		}
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
