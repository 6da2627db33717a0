package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLink inserts a single-mode link with the given title and tags.
// The URL is derived from the title so repeated calls stay unique.
func (f *Fixtures) CreateLink(ctx context.Context, title string, tags ...string) models.Link {
	f.t.Helper()
	f.n++
	return f.insert(ctx, models.Link{
		Mode:  models.ModeSingle,
		Title: title,
		Tags:  tagsOrEmpty(tags),
		URL:   fmt.Sprintf("https://example.com/%d", f.n),
	})
}

// CreateLinkWithURL inserts a single-mode link with an explicit URL.
func (f *Fixtures) CreateLinkWithURL(ctx context.Context, title, url string, tags ...string) models.Link {
	f.t.Helper()
	return f.insert(ctx, models.Link{
		Mode:  models.ModeSingle,
		Title: title,
		Tags:  tagsOrEmpty(tags),
		URL:   url,
	})
}

// CreateCollection inserts a collection-mode link holding the given URLs.
func (f *Fixtures) CreateCollection(ctx context.Context, title string, urls []string, tags ...string) models.Link {
	f.t.Helper()
	entries := make([]models.Entry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, models.Entry{URL: u})
	}
	return f.insert(ctx, models.Link{
		Mode:  models.ModeCollection,
		Title: title,
		Tags:  tagsOrEmpty(tags),
		URLs:  entries,
	})
}

// CreateLinkAt inserts a link with a fixed creation time, for ordering tests.
func (f *Fixtures) CreateLinkAt(ctx context.Context, title string, at time.Time) models.Link {
	f.t.Helper()
	f.n++
	l := models.Link{
		ID:        primitive.NewObjectID(),
		Mode:      models.ModeSingle,
		Title:     title,
		Tags:      []string{},
		URL:       fmt.Sprintf("https://example.com/at/%d", f.n),
		CreatedAt: at.UTC(),
		UpdatedAt: at.UTC(),
	}
	if _, err := f.db.Collection("links").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test link: %v", err)
	}
	return l
}

func (f *Fixtures) insert(ctx context.Context, l models.Link) models.Link {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := f.db.Collection("links").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test link: %v", err)
	}
	return l
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
