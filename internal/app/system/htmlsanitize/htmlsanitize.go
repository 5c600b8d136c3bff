// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied text before it is
// stored. Captions and comment bodies are plain text in this application,
// so the strict policy (no tags at all) is used everywhere.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML from s and unescapes entities, returning the
// trimmed plain text. "<b>hi</b>" becomes "hi"; "a &amp; b" becomes
// "a & b".
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
