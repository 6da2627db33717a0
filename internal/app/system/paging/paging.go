// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PerPage is the default number of links shown per page.
const PerPage = 24

// MaxPerPage caps a client-supplied per_page.
const MaxPerPage = 100

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePerPage extracts "per_page", falling back to def and clamping to
// MaxPerPage.
func ParsePerPage(r *http.Request, def int) int {
	n, err := strconv.Atoi(query.Get(r, "per_page"))
	if err != nil || n < 1 {
		n = def
	}
	if n > MaxPerPage {
		n = MaxPerPage
	}
	return n
}

// HasPage reports whether the request names a page explicitly.
func HasPage(r *http.Request) bool {
	return query.Get(r, "page") != ""
}

// Offset is the number of documents to skip for page.
func Offset(page, perPage int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(perPage)
}

// PageCount is ceil(total/perPage). A perPage of zero means everything is
// on one page.
func PageCount(total int64, perPage int) int {
	if total <= 0 {
		return 0
	}
	if perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Range holds display values for a paginated list.
type Range struct {
	Start    int64 `json:"start"` // 1-based index of first item shown (0 if none)
	End      int64 `json:"end"`   // 1-based index of last item shown (0 if none)
	PrevPage int   `json:"prev_page,omitempty"`
	NextPage int   `json:"next_page,omitempty"`
}

// ComputeRange calculates display values for page given how many items
// were shown and the total page count.
func ComputeRange(page, perPage, shown, pages int) Range {
	if shown == 0 {
		return Range{}
	}
	start := Offset(page, perPage) + 1
	rg := Range{Start: start, End: start + int64(shown) - 1}
	if page > 1 {
		rg.PrevPage = page - 1
	}
	if page < pages {
		rg.NextPage = page + 1
	}
	return rg
}
