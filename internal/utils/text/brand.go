package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnsurePrefix returns s starting with marker. The check ignores case and the
// marker's trailing whitespace, so "NASHR | hello" already satisfies "Nashr | ".
// An empty marker leaves s unchanged.
func EnsurePrefix(s, marker string) string {
	key := strings.TrimSpace(marker)
	if key == "" {
		return s
	}
	body := strings.TrimSpace(s)
	if len(body) >= len(key) && strings.EqualFold(body[:len(key)], key) {
		return body
	}
	return marker + body
}

// CollapseWhitespace replaces every whitespace run with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
// Input that cannot be parsed is returned with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseWhitespace(s)
	}
	doc.Find("script, style, noscript").Remove()
	return CollapseWhitespace(doc.Text())
}

// Truncate cuts s to at most max runes without adding a marker.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
