// internal/app/features/links/list.go
package links

import (
	"context"
	"net/http"

	"github.com/dalemusser/linkcatalog/internal/app/features/catalog"
	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/normalize"
	"github.com/dalemusser/linkcatalog/internal/app/system/paging"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type dashboardResponse struct {
	Links   []catalog.LinkView  `json:"links"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Pages   int                 `json:"pages"`
	PerPage int                 `json:"per_page"`
	Range   paging.Range        `json:"range"`
	Query   string              `json:"q"`
	Tag     string              `json:"tag"`
	Stats   models.Stats        `json:"stats"`
	User    string              `json:"user"`
	Flashes map[string][]string `json:"flashes,omitempty"`
}

// ServeList handles GET /admin/: the paged dashboard with totals.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	tag := normalize.Tag(query.Get(r, "tag"))
	perPage := h.PerPage
	if perPage <= 0 {
		perPage = paging.PerPage
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Links.List(ctx, linkstore.ListQuery{
		Search:  q,
		Tag:     tag,
		Page:    paging.ParsePage(r),
		PerPage: perPage,
	})
	if err != nil {
		h.storeError(w, r, "admin list failed", err)
		return
	}
	stats, err := h.Links.Stats(ctx)
	if err != nil {
		h.storeError(w, r, "admin stats failed", err)
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, dashboardResponse{
		Links:   catalog.Views(res.Links),
		Total:   res.Total,
		Page:    res.Page,
		Pages:   res.Pages,
		PerPage: res.PerPage,
		Range:   paging.ComputeRange(res.Page, res.PerPage, len(res.Links), res.Pages),
		Query:   q,
		Tag:     tag,
		Stats:   stats,
		User:    actor(r),
		Flashes: h.SessionMgr.Flashes(w, r, auth.FlashSuccess, auth.FlashError, auth.FlashWarning),
	})
}

// ServeTags handles GET /admin/tags.
func (h *Handler) ServeTags(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	tags, err := h.Links.AllTags(ctx)
	if err != nil {
		h.storeError(w, r, "list tags failed", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// ServeView handles GET /admin/links/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"link": view(l)})
}
