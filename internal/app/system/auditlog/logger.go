// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/linkcatalog/internal/app/store/audit"
	"github.com/dalemusser/linkcatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"go.uber.org/zap"
)

// Destination settings.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off" // disabled
)

// Valid reports whether s is a known destination setting.
func Valid(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login and logout events.
	Auth string
	// Admin controls logging for link changes.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil, in which case "db"
// destinations are skipped.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.LinkID != "" {
		fields = append(fields, zap.String("link_id", event.LinkID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = All
	}

	if setting == Off || setting == "" {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	e.IP = ratelimit.ClientIP(r)
	e.UserAgent = r.UserAgent()
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful admin login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, username string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Actor:     username,
		Success:   true,
	}))
}

// LoginFailed logs a rejected login. reason is never shown to the client.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attempted, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Actor:         attempted,
		Success:       false,
		FailureReason: reason,
	}))
}

// LoginRateLimited logs a login refused before credentials were checked.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, attempted string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		Actor:         attempted,
		Success:       false,
		FailureReason: "rate limit exceeded",
	}))
}

// Logout logs an admin logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, username string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Actor:     username,
		Success:   true,
	}))
}

// --- Admin Events ---

// LinkCreated logs a new link.
func (l *Logger) LinkCreated(ctx context.Context, r *http.Request, actor string, link models.Link) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventLinkCreated,
		Actor:     actor,
		LinkID:    link.ID.Hex(),
		Success:   true,
		Details: map[string]string{
			"mode":  string(link.Kind()),
			"title": link.Title,
			"urls":  strconv.Itoa(len(link.AllURLs())),
		},
	}))
}

// LinkUpdated logs an edit.
func (l *Logger) LinkUpdated(ctx context.Context, r *http.Request, actor, linkID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventLinkUpdated,
		Actor:     actor,
		LinkID:    linkID,
		Success:   true,
	}))
}

// LinkDeleted logs a removal.
func (l *Logger) LinkDeleted(ctx context.Context, r *http.Request, actor, linkID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventLinkDeleted,
		Actor:     actor,
		LinkID:    linkID,
		Success:   true,
	}))
}

// BatchImported logs the outcome of a batch submission.
func (l *Logger) BatchImported(ctx context.Context, r *http.Request, actor string, created, duplicates, failed int) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventBatchImported,
		Actor:     actor,
		Success:   created > 0,
		Details: map[string]string{
			"created":    strconv.Itoa(created),
			"duplicates": strconv.Itoa(duplicates),
			"failed":     strconv.Itoa(failed),
		},
	}))
}
