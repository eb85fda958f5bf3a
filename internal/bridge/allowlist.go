package bridge

import "strings"

// NavigationHint is reported when a trigger comes from a page outside the
// allow-list.
const NavigationHint = "Please navigate to:\n" +
	"• CAMU: https://www.mycamu.co.in/#/home/feed/enrolement\n" +
	"• OR Local Test: http://localhost:5174/"

// DefaultAllowedHosts are matched as substrings of the page URL.
var DefaultAllowedHosts = []string{"mycamu.co.in", "localhost"}

// AllowList decides which page URLs may trigger an extraction.
type AllowList struct {
	hosts []string
}

// NewAllowList creates an allow-list. With no hosts it uses
// DefaultAllowedHosts.
func NewAllowList(hosts ...string) AllowList {
	var clean []string
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			clean = append(clean, h)
		}
	}
	if len(clean) == 0 {
		clean = DefaultAllowedHosts
	}
	return AllowList{hosts: clean}
}

// Allows reports whether pageURL contains one of the allowed hosts.
func (a AllowList) Allows(pageURL string) bool {
	if pageURL == "" {
		return false
	}
	for _, h := range a.hosts {
		if strings.Contains(pageURL, h) {
			return true
		}
	}
	return false
}

// IsEnrollmentPage reports whether pageURL looks like the enrollment page.
// The portal spells it "enrolement".
func IsEnrollmentPage(pageURL string) bool {
	return strings.Contains(pageURL, "enrolement") || strings.Contains(pageURL, "enrollment")
}
