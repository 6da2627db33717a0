// internal/app/features/links/respond.go
package links

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/linkcatalog/internal/app/features/catalog"
	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/app/system/navigation"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
)

// AdminHome is where browser submissions land after a change unless a
// return URL says otherwise.
const AdminHome = "/admin/"

type noticeResponse struct {
	Notice string            `json:"notice"`
	Link   *catalog.LinkView `json:"link,omitempty"`
}

func actor(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.Username
	}
	return ""
}

func view(l models.Link) *catalog.LinkView {
	v := catalog.Views([]models.Link{l})[0]
	return &v
}

// redirectHome flashes msgs and sends a browser back to the dashboard, or
// to the admin page named by "return". HTMX clients get HX-Redirect
// instead of a 303.
func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, kind string, msgs ...string) {
	for _, m := range msgs {
		h.SessionMgr.AddFlash(w, r, kind, m)
	}
	dest := navigation.SafeBackURL(r, navigation.AdminBackURL)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// done reports a successful change.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, status int, notice string, payload any) {
	if auth.WantsHTML(r) {
		h.redirectHome(w, r, auth.FlashSuccess, notice)
		return
	}
	uierrors.WriteJSON(w, status, payload)
}

// reject reports a refused change with a single message.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if auth.WantsHTML(r) {
		h.redirectHome(w, r, auth.FlashError, msg)
		return
	}
	uierrors.WriteJSON(w, status, uierrors.ErrorBody{Error: msg})
}

// invalid reports field errors; browsers get one flash per field.
func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, fe inputval.FieldErrors) {
	if auth.WantsHTML(r) {
		msgs := make([]string, 0, len(fe))
		for _, k := range fe.Keys() {
			msgs = append(msgs, fieldLabel(k)+": "+fe[k])
		}
		h.redirectHome(w, r, auth.FlashError, msgs...)
		return
	}
	uierrors.RenderValidation(w, r, "", fe)
}

// fieldLabel turns "urls[1].url" into "Urls[1].url" and "title" into "Title".
func fieldLabel(k string) string {
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, linkstore.ErrUnavailable) {
		h.ErrLog.LogUnavailable(w, r, msg, err)
		return
	}
	h.ErrLog.LogServerError(w, r, msg, err, "A database error occurred.", AdminHome)
}
