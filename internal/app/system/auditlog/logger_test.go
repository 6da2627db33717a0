package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/linkcatalog/internal/app/store/audit"
	"github.com/dalemusser/linkcatalog/internal/app/system/auditlog"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/dalemusser/linkcatalog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, "admin")
	logger.LinkDeleted(ctx, req, "admin", primitive.NewObjectID().Hex())
	logger.Logout(ctx, req, "admin")
}

func TestLogger_LogOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.Log, Admin: auditlog.Off})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/admin/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	logger.LoginFailed(ctx, req, "eve", "invalid credentials")
	logger.LinkDeleted(ctx, req, "admin", "abc")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry (admin is off), got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != audit.EventLoginFailed {
		t.Errorf("event_type: got %v", fields["event_type"])
	}
	if fields["ip"] != "10.0.0.1" {
		t.Errorf("ip: got %v", fields["ip"])
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("failed login should log at warn, got %v", entries[0].Level)
	}
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.Off, Admin: auditlog.Off})
	req := httptest.NewRequest("POST", "/admin/login", nil)

	logger.LoginSuccess(ctx, req, "admin")

	n, err := store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB, Admin: auditlog.DB})
	req := httptest.NewRequest("POST", "/admin/links", nil)

	link := models.Link{
		ID:    primitive.NewObjectID(),
		Mode:  models.ModeCollection,
		Title: "Docs",
		URLs:  []models.Entry{{URL: "https://a.example.com"}, {URL: "https://b.example.com"}},
	}
	logger.LinkCreated(ctx, req, "admin", link)
	logger.BatchImported(ctx, req, "admin", 0, 2, 1)

	events, err := store.Query(ctx, audit.QueryFilter{LinkID: link.ID.Hex()})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["mode"] != "collection" || events[0].Details["urls"] != "2" {
		t.Errorf("details: %v", events[0].Details)
	}

	batch, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventBatchImported})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(batch) != 1 || batch[0].Success {
		t.Errorf("batch with nothing created should be recorded as unsuccessful: %+v", batch)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"all", "db", "log", "off"} {
		if !auditlog.Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	if auditlog.Valid("everything") {
		t.Error("Valid(everything) = true")
	}
}
