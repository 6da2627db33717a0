// Package htmlsanitize strips markup from user-supplied text before it is
// stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag and the content of script/style elements.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all HTML removed. Entities that bluemonday
// escapes on output are decoded again so the stored value is plain text.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
