package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/linkcatalog/internal/app/system/passhash"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys & errors                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	loggedInKey  = "logged_in"
	usernameKey  = "username"
	loginAtKey   = "login_at"
	expiresAtKey = "expires_at"

	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/admin/login"

	// Flash categories.
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

var (
	// ErrNotConfigured means no admin password hash is configured.
	ErrNotConfigured = errors.New("admin password not configured")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in admin as injected into r.Context().
type SessionUser struct {
	Username  string
	LoginAt   time.Time
	ExpiresAt time.Time
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects u into the request context, bypassing cookies.
// Handler tests use it to simulate a signed-in admin.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the single admin identity.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	maxAge time.Duration
	log    *zap.Logger

	adminUser string
	adminHash string

	now func() time.Time
}

// NewSessionManager builds a cookie-backed session manager. maxAge is the
// fixed lifetime of a login; it does not slide with activity. The secure
// flag controls whether cookies are marked Secure and which SameSite mode
// is used.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		store:  store,
		name:   name,
		maxAge: maxAge,
		log:    logger,
		now:    time.Now,
	}, nil
}

// SetAdmin configures the admin identity checked by Authenticate.
func (sm *SessionManager) SetAdmin(username, passwordHash string) {
	sm.adminUser = username
	sm.adminHash = passwordHash
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// MaxAge is the fixed session lifetime.
func (sm *SessionManager) MaxAge() time.Duration { return sm.maxAge }

// GetSession returns the named session. On a decode failure a fresh
// session is returned along with the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Authenticate compares the submitted credentials with the configured
// admin identity.
func (sm *SessionManager) Authenticate(username, password string) error {
	if sm.adminHash == "" {
		return ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(sm.adminUser)) == 1

	// Verify even for an unknown user so both paths cost the same.
	err := passhash.Verify(sm.adminHash, password)
	switch {
	case err == nil && userOK:
		return nil
	case err == nil || errors.Is(err, passhash.ErrMismatch):
		return ErrInvalidCredentials
	default:
		sm.log.Error("admin password hash unusable", zap.Error(err))
		return ErrInvalidCredentials
	}
}

// SignIn marks the session as logged in until now+MaxAge.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, username string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during sign-in; starting fresh", zap.Error(err))
	}
	now := sm.now()
	sess.Values[loggedInKey] = true
	sess.Values[usernameKey] = username
	sess.Values[loginAtKey] = now.Unix()
	sess.Values[expiresAtKey] = now.Add(sm.maxAge).Unix()
	return sess.Save(r, w)
}

// SignOut deletes the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during logout", zap.Error(err))
	}
	// Ensure the deletion-cookie matches the original store settings.
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// AddFlash queues a one-time message for the next response that reads
// flashes.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, _ := sm.GetSession(r)
	sess.AddFlash(msg, kind)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save flash failed", zap.Error(err))
	}
}

// Flashes pops the queued messages of the given kinds.
func (sm *SessionManager) Flashes(w http.ResponseWriter, r *http.Request, kinds ...string) map[string][]string {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}
	out := map[string][]string{}
	for _, k := range kinds {
		for _, f := range sess.Flashes(k) {
			if s, ok := f.(string); ok {
				out[k] = append(out[k], s)
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			sm.log.Warn("save session after reading flashes", zap.Error(err))
		}
	}
	return out
}

// LoadSessionUser injects the admin into context if the session carries
// an unexpired login.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if ok, _ := sess.Values[loggedInKey].(bool); ok {
			exp, _ := sess.Values[expiresAtKey].(int64)
			if sm.now().Unix() < exp {
				login, _ := sess.Values[loginAtKey].(int64)
				r = withUser(r, &SessionUser{
					Username:  getString(sess, usernameKey),
					LoginAt:   time.Unix(login, 0).UTC(),
					ExpiresAt: time.Unix(exp, 0).UTC(),
				})
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to the login page
//   - HTML: flashes a warning and 303-redirects to the login page
//   - API:  401 with a JSON error body
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		dest := LoginPath + "?return=" + url.QueryEscape(currentURI(r))

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			sm.AddFlash(w, r, FlashWarning, "Please login to access this page")
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Please login to access this page"}`))
	})
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// WantsHTML reports whether the client is a browser or HTMX.
func WantsHTML(r *http.Request) bool { return wantsHTML(r) }

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
