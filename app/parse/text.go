// Package parse turns raw scraped source data into parsed batches ready for
// collection. Each source gets its own heuristics; the shared canonical
// shapes live in the collect package.
package parse

import (
	"html"
	"regexp"
	"strings"
)

var tagRE = regexp.MustCompile(`<[^>]+>`)

// stripTags drops markup, decodes HTML entities and trims the result.
func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRE.ReplaceAllString(s, "")))
}
