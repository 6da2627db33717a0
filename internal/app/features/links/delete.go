// internal/app/features/links/delete.go
package links

import (
	"context"
	"net/http"

	"github.com/dalemusser/linkcatalog/internal/app/system/metrics"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

const (
	msgDeleted      = "URL deleted successfully!"
	msgDeleteFailed = "Failed to delete URL"
)

// HandleDelete handles POST /admin/links/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Links.Delete(ctx, id)
	if err != nil {
		h.storeError(w, r, "delete link failed", err)
		return
	}
	if !deleted {
		h.reject(w, r, http.StatusNotFound, msgDeleteFailed)
		return
	}

	metrics.LinksDeleted.Inc()
	h.AuditLog.LinkDeleted(ctx, r, actor(r), id)
	h.done(w, r, http.StatusOK, msgDeleted, map[string]string{"notice": msgDeleted, "id": id})
}
