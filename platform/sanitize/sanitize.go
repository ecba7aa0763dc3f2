// Package sanitize cleans user-provided text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// Text strips HTML tags and surrounding whitespace. Line breaks inside the
// text are kept, so it suits notes and comments.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	// Encoded tags survive the first pass.
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Label is Text for single-line values such as stage names: runs of
// whitespace collapse to one space.
func Label(s string) string {
	return whitespaceRegex.ReplaceAllString(Text(s), " ")
}

// LabelPtr applies Label to an optional value.
func LabelPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Label(*s)
	return &result
}
