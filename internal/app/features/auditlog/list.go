// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	"github.com/dalemusser/linkcatalog/internal/app/store/audit"
	"github.com/dalemusser/linkcatalog/internal/app/system/paging"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const pageSize = 50

type listResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Pages      int           `json:"pages"`
	Categories []string      `json:"categories"`
}

// ServeList handles GET /admin/audit with optional category, event_type,
// actor, link_id, start_date and end_date (YYYY-MM-DD) filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	page := paging.ParsePage(r)
	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		Actor:     strings.TrimSpace(query.Get(r, "actor")),
		LinkID:    strings.TrimSpace(query.Get(r, "link_id")),
		Limit:     pageSize,
		Offset:    paging.Offset(page, pageSize),
	}

	if s := strings.TrimSpace(query.Get(r, "start_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(query.Get(r, "end_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "end_date must be YYYY-MM-DD")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/admin/")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/admin/")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		Pages:      paging.PageCount(total, pageSize),
		Categories: []string{audit.CategoryAuth, audit.CategoryAdmin},
	})
}
