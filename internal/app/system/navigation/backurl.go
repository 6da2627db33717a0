// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/admin/").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParams are carried from the request onto the fallback
	// URL when present, so a filtered listing stays filtered.
	PreserveQueryParams []string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	dest := navigation.SafeBackURL(r, navigation.AdminBackURL)
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	// Try query parameter first, then form value
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" && allowed(ret, opts) {
		return ret
	}

	fallback := opts.Fallback
	vals := url.Values{}
	for _, p := range opts.PreserveQueryParams {
		v := query.Get(r, p)
		if v == "" {
			v = strings.TrimSpace(r.FormValue(p))
		}
		if v != "" {
			vals.Set(p, v)
		}
	}
	if len(vals) > 0 {
		sep := "?"
		if strings.Contains(fallback, "?") {
			sep = "&"
		}
		fallback += sep + vals.Encode()
	}
	return fallback
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	path := ret
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(path, excluded) {
			return false
		}
	}
	return true
}

// AdminBackURL sends admin actions back to the dashboard, or to the
// listing page named by "return".
var AdminBackURL = BackURLOptions{
	AllowedPrefix:       "/admin/",
	ExcludedSubpaths:    []string{"/edit", "/delete", "/login", "/logout", "/import"},
	Fallback:            "/admin/",
	PreserveQueryParams: []string{"q", "tag", "page"},
}
