// internal/app/features/catalog/list.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/normalize"
	"github.com/dalemusser/linkcatalog/internal/app/system/paging"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// LinkView is a link as listed, with its host pulled out for display.
type LinkView struct {
	models.Link
	Domain string `json:"domain,omitempty"`
}

// Views wraps links for listing.
func Views(links []models.Link) []LinkView {
	out := make([]LinkView, 0, len(links))
	for _, l := range links {
		out = append(out, LinkView{Link: l, Domain: l.Domain()})
	}
	return out
}

type listResponse struct {
	Links   []LinkView        `json:"links"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
	PerPage int               `json:"per_page"`
	Range   *paging.Range     `json:"range,omitempty"`
	Query   string            `json:"q"`
	Tag     string            `json:"tag"`
	Tags    []models.TagCount `json:"tags"`
}

// ServeList handles GET /.
//
// Without a page parameter every matching link is returned; with one the
// listing is paged (per_page defaults to the configured size).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	tag := normalize.Tag(query.Get(r, "tag"))

	lq := linkstore.ListQuery{Search: q, Tag: tag}
	paged := paging.HasPage(r)
	if paged {
		lq.Page = paging.ParsePage(r)
		lq.PerPage = paging.ParsePerPage(r, h.PerPage)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Links.List(ctx, lq)
	if err != nil {
		h.storeError(w, r, "list links failed", err)
		return
	}
	tags, err := h.Links.AllTags(ctx)
	if err != nil {
		h.storeError(w, r, "list tags failed", err)
		return
	}

	resp := listResponse{
		Links:   Views(res.Links),
		Total:   res.Total,
		Page:    res.Page,
		Pages:   res.Pages,
		PerPage: res.PerPage,
		Query:   q,
		Tag:     tag,
		Tags:    tags,
	}
	if paged {
		rg := paging.ComputeRange(res.Page, res.PerPage, len(res.Links), res.Pages)
		resp.Range = &rg
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, linkstore.ErrUnavailable) {
		h.ErrLog.LogUnavailable(w, r, msg, err)
		return
	}
	h.ErrLog.LogServerError(w, r, msg, err, "A database error occurred.", "/")
}
