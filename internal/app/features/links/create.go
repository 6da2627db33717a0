// internal/app/features/links/create.go
package links

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/linkcatalog/internal/app/features/catalog"
	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/formdata"
	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/app/system/metrics"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"go.uber.org/zap"
)

const (
	msgCreated   = "URL added successfully!"
	msgDuplicate = "This URL already exists"
)

// HandleCreate handles POST /admin/links for all three modes.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var f linkForm
	if err := formdata.Decode(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create: bad body", err, "Could not read the submitted form.")
		return
	}

	mode := f.resolveMode(models.ModeSingle)
	if mode == modeBatch {
		h.createBatch(w, r, f.batch(), h.MaxBatch)
		return
	}

	link, fe := f.prepare(mode)
	if len(fe) > 0 {
		h.invalid(w, r, fe)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Links.Create(ctx, link)
	switch {
	case errors.Is(err, linkstore.ErrDuplicateURL):
		metrics.LinkDuplicates.Inc()
		h.reject(w, r, http.StatusConflict, msgDuplicate)
		return
	case err != nil:
		h.storeError(w, r, "create link failed", err)
		return
	}

	metrics.LinksCreated.WithLabelValues(string(created.Mode)).Inc()
	h.AuditLog.LinkCreated(ctx, r, actor(r), created)
	h.Log.Info("link created", zap.String("id", created.ID.Hex()), zap.String("mode", string(created.Mode)))

	h.done(w, r, http.StatusCreated, msgCreated, noticeResponse{Notice: msgCreated, Link: view(created)})
}

type batchResponse struct {
	Notice     string             `json:"notice"`
	Created    int                `json:"created"`
	Duplicates int                `json:"duplicates"`
	Failed     int                `json:"failed"`
	Errors     []string           `json:"errors"`
	Links      []catalog.LinkView `json:"links"`
}

// createBatch validates every item, then inserts the valid ones one at a
// time. Duplicates are counted and skipped; a store outage stops the run.
func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request, items []inputval.SingleInput, max int) {
	res := inputval.ValidateBatch(items, max)
	if !res.OK() {
		if auth.WantsHTML(r) {
			h.redirectHome(w, r, auth.FlashError, res.Errors...)
			return
		}
		uierrors.RenderValidation(w, r, "No valid URLs to add", res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	out := batchResponse{Failed: len(res.Errors), Errors: append([]string{}, res.Errors...)}
	var created []models.Link
	for _, in := range res.Valid {
		l, err := h.Links.Create(ctx, inputval.PrepareSingle(in))
		switch {
		case errors.Is(err, linkstore.ErrDuplicateURL):
			metrics.LinkDuplicates.Inc()
			out.Duplicates++
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", in.URL, msgDuplicate))
			continue
		case err != nil:
			h.Log.Warn("batch stopped", zap.Int("created", len(created)), zap.Error(err))
			h.AuditLog.BatchImported(r.Context(), r, actor(r), len(created), out.Duplicates, out.Failed)
			h.storeError(w, r, "batch create failed", err)
			return
		}
		metrics.LinksCreated.WithLabelValues(string(l.Mode)).Inc()
		created = append(created, l)
	}

	out.Created = len(created)
	out.Links = catalog.Views(created)
	out.Notice = batchNotice(out)
	h.AuditLog.BatchImported(ctx, r, actor(r), out.Created, out.Duplicates, out.Failed)

	status := http.StatusOK
	if out.Created > 0 {
		status = http.StatusCreated
	}
	if auth.WantsHTML(r) {
		h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, out.Notice)
		h.redirectHome(w, r, auth.FlashWarning, out.Errors...)
		return
	}
	uierrors.WriteJSON(w, status, out)
}

func batchNotice(b batchResponse) string {
	msg := fmt.Sprintf("Added %d URL(s)", b.Created)
	if b.Duplicates > 0 {
		msg += fmt.Sprintf(", %d duplicate(s) skipped", b.Duplicates)
	}
	if b.Failed > 0 {
		msg += fmt.Sprintf(", %d invalid", b.Failed)
	}
	return msg
}
