// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	"github.com/dalemusser/linkcatalog/internal/app/system/auditlog"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/formdata"
	"github.com/dalemusser/linkcatalog/internal/app/system/metrics"
	"github.com/dalemusser/linkcatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// AdminHome is where a successful login lands by default.
const AdminHome = "/admin/"

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
}

func NewHandler(sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}

type loginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Return   string `json:"return"`
}

// loginState is what GET /admin/login reports in place of a form.
type loginState struct {
	SignedIn bool                `json:"signed_in"`
	Return   string              `json:"return,omitempty"`
	Flashes  map[string][]string `json:"flashes,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", AdminHome), http.StatusSeeOther)
		return
	}

	flashes := h.SessionMgr.Flashes(w, r, auth.FlashSuccess, auth.FlashError, auth.FlashWarning)
	uierrors.WriteJSON(w, http.StatusOK, loginState{Return: ret, Flashes: flashes})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/login                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginForm
	if err := formdata.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.")
		return
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		h.fail(w, r, http.StatusUnprocessableEntity, "Username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	allowed, retryAfter, err := h.Limiter.Check(ctx, r)
	if err != nil {
		h.Log.Warn("login rate limiter unavailable; allowing attempt", zap.Error(err))
	}
	if !allowed {
		h.AuditLog.LoginRateLimited(ctx, r, username)
		metrics.Logins.WithLabelValues(metrics.LoginRateLimited).Inc()
		uierrors.RenderTooManyRequests(w, r, "Too many login attempts. Please try again later.", retryAfter)
		return
	}

	switch err := h.SessionMgr.Authenticate(username, in.Password); {
	case errors.Is(err, auth.ErrNotConfigured):
		h.Log.Error("login attempted but no admin password hash is configured")
		h.AuditLog.LoginFailed(ctx, r, username, "not configured")
		metrics.Logins.WithLabelValues(metrics.LoginFailed).Inc()
		h.fail(w, r, http.StatusServiceUnavailable, "Admin password not configured")
		return
	case err != nil:
		h.AuditLog.LoginFailed(ctx, r, username, "invalid credentials")
		metrics.Logins.WithLabelValues(metrics.LoginFailed).Inc()
		h.fail(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, username); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.", auth.LoginPath)
		return
	}
	if err := h.Limiter.Success(ctx, r); err != nil {
		h.Log.Warn("reset login rate limit failed", zap.Error(err))
	}

	h.AuditLog.LoginSuccess(ctx, r, username)
	metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()

	dest := urlutil.SafeReturn(strings.TrimSpace(in.Return), "", AdminHome)
	if auth.WantsHTML(r) {
		h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Login successful")
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]string{
		"notice":   "Login successful",
		"redirect": dest,
	})
}

// fail answers a rejected login. Browsers get the message as a flash and
// land back on the login page; API clients get a JSON error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if auth.WantsHTML(r) {
		h.SessionMgr.AddFlash(w, r, auth.FlashError, msg)
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	uierrors.WriteJSON(w, status, uierrors.ErrorBody{Error: msg})
}
