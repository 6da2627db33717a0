package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/linkcatalog/internal/app/system/passhash"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	hash, err := passhash.HashWithParams("s3cret-password", passhash.Params{Memory: 8 * 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	sm.SetAdmin("admin", hash)
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	})
}

// signIn performs SignIn and returns the cookies it set.
func signIn(t *testing.T, sm *SessionManager) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", LoginPath, nil)
	if err := sm.SignIn(rec, req, "admin"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}
	return cookies
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestAuthenticate(t *testing.T) {
	sm := newTestSessionManager(t)

	tests := []struct {
		name     string
		user     string
		password string
		want     error
	}{
		{"valid", "admin", "s3cret-password", nil},
		{"wrong password", "admin", "nope", ErrInvalidCredentials},
		{"wrong user", "root", "s3cret-password", ErrInvalidCredentials},
		{"both wrong", "root", "nope", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sm.Authenticate(tt.user, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Authenticate(%q, %q) = %v, want %v", tt.user, tt.password, err, tt.want)
			}
		})
	}
}

func TestAuthenticate_NotConfigured(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetAdmin("admin", "")
	if err := sm.Authenticate("admin", "anything"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Authenticate = %v, want ErrNotConfigured", err)
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/admin/?page=2", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, LoginPath+"?return=") {
		t.Errorf("expected redirect to %s, got %q", LoginPath, location)
	}

	// The warning flash travels with the redirect.
	next := httptest.NewRequest("GET", LoginPath, nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	flashes := sm.Flashes(httptest.NewRecorder(), next, FlashWarning)
	if got := flashes[FlashWarning]; len(got) != 1 || got[0] != "Please login to access this page" {
		t.Errorf("warning flashes = %v", got)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/admin/tags", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/admin/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, LoginPath) {
		t.Errorf("expected HX-Redirect to %s, got %q", LoginPath, hx)
	}
}

func TestRequireSignedIn_WithUser_Passes(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := WithTestUser(httptest.NewRequest("GET", "/admin/", nil), &SessionUser{Username: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignIn_LoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm)

	var got *SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/admin/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context after sign-in")
	}
	if got.Username != "admin" {
		t.Errorf("username = %q, want admin", got.Username)
	}
	if d := got.ExpiresAt.Sub(got.LoginAt); d != time.Hour {
		t.Errorf("session lifetime = %v, want 1h", d)
	}
}

func TestLoadSessionUser_ExpiredSessionIgnored(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm)

	// Jump past the fixed lifetime; activity does not extend it.
	sm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/admin/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expired session should not load a user")
	}
}

func TestSignOut_ClearsCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm)

	req := httptest.NewRequest("POST", "/admin/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be expired")
	}
}
