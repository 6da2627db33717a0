// internal/app/features/links/edit.go
package links

import (
	"context"
	"errors"
	"net/http"

	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/formdata"
	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/app/system/metrics"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const (
	msgNotFound     = "URL not found"
	msgUpdated      = "URL updated successfully!"
	msgUpdateFailed = "Failed to update URL"
)

// load fetches the link named by the {id} route param, writing 404 or a
// store error when it cannot.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Link, bool) {
	l, err := h.Links.GetByID(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, linkstore.ErrNotFound):
		h.reject(w, r, http.StatusNotFound, msgNotFound)
		return models.Link{}, false
	case err != nil:
		h.storeError(w, r, "load link failed", err)
		return models.Link{}, false
	}
	return l, true
}

// HandleEdit handles POST /admin/links/{id}/edit. The submission replaces
// the stored fields; an omitted mode keeps the link's current kind.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	var f linkForm
	if err := formdata.Decode(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "edit: bad body", err, "Could not read the submitted form.")
		return
	}

	mode := f.resolveMode(existing.Kind())
	if mode == modeBatch {
		h.invalid(w, r, inputval.FieldErrors{"mode": "Batch mode is only available when adding"})
		return
	}
	link, fe := f.prepare(mode)
	if len(fe) > 0 {
		h.invalid(w, r, fe)
		return
	}

	id := existing.ID.Hex()
	updated, err := h.Links.Update(ctx, id, models.FieldsFrom(link))
	switch {
	case errors.Is(err, linkstore.ErrDuplicateURL):
		metrics.LinkDuplicates.Inc()
		h.reject(w, r, http.StatusConflict, msgDuplicate)
		return
	case err != nil:
		h.storeError(w, r, "update link failed", err)
		return
	case !updated:
		h.reject(w, r, http.StatusNotFound, msgUpdateFailed)
		return
	}

	h.AuditLog.LinkUpdated(ctx, r, actor(r), id)

	resp := noticeResponse{Notice: msgUpdated}
	if l, err := h.Links.GetByID(ctx, id); err == nil {
		resp.Link = view(l)
	}
	h.done(w, r, http.StatusOK, msgUpdated, resp)
}
