// Package normalize provides canonical forms for user-supplied strings:
// tags, free-text query parameters, and titles.
package normalize

import (
	"strings"
)

// Tags splits a comma-separated tag string and normalizes the parts.
// See TagList for the rules.
func Tags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return TagList(strings.Split(s, ","))
}

// TagList lowercases and trims each tag, drops empties, and removes
// duplicates keeping the first occurrence. The result is never nil.
// TagList(TagList(x)) == TagList(x).
func TagList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Tag normalizes a single tag used as a filter value.
func Tag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims whitespace and preserves case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Text trims surrounding whitespace from free text such as titles and
// descriptions.
func Text(s string) string {
	return strings.TrimSpace(s)
}
