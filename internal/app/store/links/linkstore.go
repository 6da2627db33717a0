// internal/app/store/links/linkstore.go
package linkstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/linkcatalog/internal/app/system/paging"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	// ErrDuplicateURL is returned when a URL is already stored.
	ErrDuplicateURL = errors.New("this URL already exists")

	// ErrNotFound is returned by GetByID for a malformed or unknown id.
	ErrNotFound = errors.New("link not found")

	// ErrUnavailable wraps driver errors caused by the database being
	// unreachable. Match it with errors.Is.
	ErrUnavailable = errors.New("database unavailable")

	// ErrInvalidLink is returned when a link's mode and URL fields disagree.
	ErrInvalidLink = errors.New("link must hold exactly one of url or urls matching its mode")
)

// Options tunes store behavior beyond what the indexes enforce.
type Options struct {
	// EnforceCollectionURLs rejects links whose URLs already appear in any
	// other document, collection entries included. The check runs before
	// the write and is not atomic with it.
	EnforceCollectionURLs bool
}

type Store struct {
	c    *mongo.Collection
	opts Options
}

func New(db *mongo.Database) *Store {
	return NewWithOptions(db, Options{})
}

func NewWithOptions(db *mongo.Database, opts Options) *Store {
	return &Store{c: db.Collection("links"), opts: opts}
}

// ListQuery selects and pages a listing. Empty Search and Tag match
// everything. PerPage 0 returns the whole result set.
type ListQuery struct {
	Search  string
	Tag     string
	Page    int
	PerPage int
}

// Create assigns an id and timestamps, then inserts l.
func (s *Store) Create(ctx context.Context, l models.Link) (models.Link, error) {
	return s.CreateAt(ctx, l, time.Now())
}

// CreateAt is Create with an explicit creation time. Imports use it to
// keep the original ordering.
func (s *Store) CreateAt(ctx context.Context, l models.Link, at time.Time) (models.Link, error) {
	if err := checkShape(l); err != nil {
		return models.Link{}, err
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}

	now := at.UTC().Truncate(time.Millisecond)
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now

	if s.opts.EnforceCollectionURLs {
		if err := s.checkURLsFree(ctx, l.ID, l.AllURLs()); err != nil {
			return models.Link{}, err
		}
	}

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Link{}, mapErr(err)
	}
	return l, nil
}

// GetByID returns the link with the given hex id.
func (s *Store) GetByID(ctx context.Context, hex string) (models.Link, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return models.Link{}, ErrNotFound
	}
	var l models.Link
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Link{}, ErrNotFound
		}
		return models.Link{}, mapErr(err)
	}
	return l, nil
}

// List returns links matching q, newest first.
func (s *Store) List(ctx context.Context, q ListQuery) (models.ListResult, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Tag != "" {
		filter["tags"] = q.Tag
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 0 {
		perPage = 0
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return models.ListResult{}, mapErr(err)
	}

	findOpts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if perPage > 0 {
		findOpts.SetSkip(paging.Offset(page, perPage)).SetLimit(int64(perPage))
	} else {
		page = 1
	}

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return models.ListResult{}, mapErr(err)
	}
	defer cur.Close(ctx)

	links := []models.Link{}
	if err := cur.All(ctx, &links); err != nil {
		return models.ListResult{}, mapErr(err)
	}

	return models.ListResult{
		Links:   links,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   paging.PageCount(total, perPage),
	}, nil
}

// Update writes the named fields and refreshes updated_at. Switching the
// URL field switches the mode and removes the other mode's field. It
// reports whether the document was modified; an unknown or malformed id
// is (false, nil). updated_at changes on every call, so any matched
// document counts as modified, including a resubmitted form with no
// content changes.
func (s *Store) Update(ctx context.Context, hex string, f models.LinkFields) (bool, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return false, nil
	}
	if f.Empty() {
		return false, nil
	}
	if f.URL != nil && f.URLs != nil {
		return false, ErrInvalidLink
	}

	set := bson.M{}
	unset := bson.M{}

	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Description != nil {
		if *f.Description == "" {
			unset["description"] = ""
		} else {
			set["description"] = *f.Description
		}
	}
	if f.Tags != nil {
		set["tags"] = f.Tags
	}

	var urls []string
	switch {
	case f.URL != nil:
		if *f.URL == "" {
			return false, ErrInvalidLink
		}
		set["url"] = *f.URL
		set["mode"] = models.ModeSingle
		unset["urls"] = ""
		urls = []string{*f.URL}
	case f.URLs != nil:
		if len(f.URLs) == 0 {
			return false, ErrInvalidLink
		}
		set["urls"] = f.URLs
		set["mode"] = models.ModeCollection
		unset["url"] = ""
		for _, e := range f.URLs {
			urls = append(urls, e.URL)
		}
	}

	if s.opts.EnforceCollectionURLs && len(urls) > 0 {
		if err := s.checkURLsFree(ctx, id, urls); err != nil {
			return false, err
		}
	}

	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	upd := bson.M{"$set": set}
	if len(unset) > 0 {
		upd["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, upd)
	if err != nil {
		return false, mapErr(err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes a link. It reports whether a document was deleted.
func (s *Store) Delete(ctx context.Context, hex string) (bool, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return false, nil
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mapErr(err)
	}
	return res.DeletedCount > 0, nil
}

// AllTags counts links per tag, most used first and ties by name.
func (s *Store) AllTags(ctx context.Context) ([]models.TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	out := []models.TagCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// Stats returns the link total and the tag counts.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, mapErr(err)
	}
	tags, err := s.AllTags(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{
		TotalLinks: total,
		TotalTags:  len(tags),
		Tags:       tags,
	}, nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return mapErr(s.c.Database().Client().Ping(ctx, readpref.Primary()))
}

// checkURLsFree reports ErrDuplicateURL if any of urls is held by a
// document other than self.
func (s *Store) checkURLsFree(ctx context.Context, self primitive.ObjectID, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	filter := bson.M{
		"_id": bson.M{"$ne": self},
		"$or": bson.A{
			bson.M{"url": bson.M{"$in": urls}},
			bson.M{"urls.url": bson.M{"$in": urls}},
		},
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return ErrDuplicateURL
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil
	default:
		return mapErr(err)
	}
}

func checkShape(l models.Link) error {
	switch l.Mode {
	case models.ModeSingle:
		if l.URL == "" || len(l.URLs) > 0 {
			return ErrInvalidLink
		}
	case models.ModeCollection:
		if l.URL != "" || len(l.URLs) == 0 {
			return ErrInvalidLink
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidLink, l.Mode)
	}
	return nil
}

// mapErr translates driver errors into the store's sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case wafflemongo.IsDup(err):
		return ErrDuplicateURL
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func isUnavailable(err error) bool {
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
