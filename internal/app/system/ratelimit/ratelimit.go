// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Backend counts attempts per key within a window.
type Backend interface {
	// Take records one attempt for key and reports whether it is allowed.
	Take(ctx context.Context, key string) (bool, error)
	// Clear forgets all attempts for key.
	Clear(ctx context.Context, key string) error
	// Window is the counting window, used for Retry-After.
	Window() time.Duration
}

// Limiter is an in-memory fixed-window limiter. It is safe for concurrent
// use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	cleanup  time.Duration // how often to clean old entries
	stop     chan struct{}
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a new rate limiter.
// limit: maximum requests allowed per duration
// duration: the time window for counting requests
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2, // cleanup entries older than 2x duration
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow checks if a request from the given key should be allowed.
// Returns true if allowed, false if rate limited.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Remaining returns how many requests are left for this key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || time.Now().After(w.expiresAt) {
		return l.limit
	}

	remaining := l.limit - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the rate limit for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Take implements Backend.
func (l *Limiter) Take(_ context.Context, key string) (bool, error) {
	return l.Allow(key), nil
}

// Clear implements Backend.
func (l *Limiter) Clear(_ context.Context, key string) error {
	l.Reset(key)
	return nil
}

// Window implements Backend.
func (l *Limiter) Window() time.Duration { return l.duration }

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

// cleanupLoop periodically removes expired entries to prevent memory leaks.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles admin login attempts per client IP.
type LoginLimiter struct {
	backend Backend
}

// NewLoginLimiter wraps a backend.
func NewLoginLimiter(b Backend) *LoginLimiter {
	return &LoginLimiter{backend: b}
}

func loginKey(r *http.Request) string { return "login:" + ClientIP(r) }

// Check records an attempt and reports whether it may proceed. When it may
// not, retryAfter is the window length. Backend errors fail open.
func (ll *LoginLimiter) Check(ctx context.Context, r *http.Request) (allowed bool, retryAfter time.Duration, err error) {
	if ll == nil || ll.backend == nil {
		return true, 0, nil
	}
	ok, err := ll.backend.Take(ctx, loginKey(r))
	if err != nil {
		return true, 0, err
	}
	if !ok {
		return false, ll.backend.Window(), nil
	}
	return true, 0, nil
}

// Success clears the attempt count for the request's IP.
func (ll *LoginLimiter) Success(ctx context.Context, r *http.Request) error {
	if ll == nil || ll.backend == nil {
		return nil
	}
	return ll.backend.Clear(ctx, loginKey(r))
}
