// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureLinks(ctx, db); err != nil {
		problems = append(problems, "links: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Sparse  *bool  `bson:"sparse,omitempty"`
	Weights bson.M `bson:"weights,omitempty"`
}

// spec is the comparable shape of an index, desired or existing.
type spec struct {
	name   string
	sig    string
	unique bool
	sparse bool
}

func (s spec) sameOptions(o spec) bool {
	return s.unique == o.unique && s.sparse == o.sparse
}

func (s spec) isText() bool { return strings.HasPrefix(s.sig, "text:") }

// keySig renders keys as a comparable string. Text indexes are listed by
// the server as {_fts: "text", _ftsx: 1}, so they are compared by their
// field set instead.
func keySig(keys bson.D, weights bson.M) string {
	var textFields []string
	for _, kv := range keys {
		if kv.Key == "_fts" {
			for f := range weights {
				textFields = append(textFields, f)
			}
			break
		}
		if v, ok := kv.Value.(string); ok && v == "text" {
			textFields = append(textFields, kv.Key)
		}
	}
	if len(textFields) > 0 {
		sort.Strings(textFields)
		return "text:" + strings.Join(textFields, ",")
	}

	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func deref(b *bool) bool { return b != nil && *b }

func desiredSpec(m mongo.IndexModel) spec {
	s := spec{sig: keySig(m.Keys.(bson.D), nil)}
	if m.Options != nil {
		if m.Options.Name != nil {
			s.name = *m.Options.Name
		}
		s.unique = deref(m.Options.Unique)
		s.sparse = deref(m.Options.Sparse)
	}
	return s
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]spec, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]spec{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		s := spec{
			name:   idx.Name,
			sig:    keySig(idx.Key, idx.Weights),
			unique: deref(idx.Unique),
			sparse: deref(idx.Sparse),
		}
		out[s.sig] = s
	}
	return out, cur.Err()
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if err := ensureIndex(ctx, coll, m); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ensureIndex makes one desired index exist with the desired name and
// options. An index on the same keys with different options (for example
// a legacy non-sparse unique url index) or a different name is dropped and
// recreated. A collection holds at most one text index, so any other text
// index is dropped first.
func ensureIndex(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel) error {
	want := desiredSpec(m)
	start := time.Now()
	log := zap.L().With(
		zap.String("collection", coll.Name()),
		zap.String("name", want.name),
		zap.String("keys", want.sig),
		zap.Bool("unique", want.unique),
		zap.Bool("sparse", want.sparse))

	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A missing collection lists no indexes on most servers; anything
		// else is worth surfacing.
		log.Warn("list indexes failed", zap.Error(err))
		existing = map[string]spec{}
	}

	var stale []string
	if ex, ok := existing[want.sig]; ok {
		if ex.sameOptions(want) && (want.name == "" || ex.name == want.name) {
			log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
			return nil
		}
		stale = append(stale, ex.name)
	}
	if want.isText() {
		for sig, ex := range existing {
			if sig != want.sig && ex.isText() {
				stale = append(stale, ex.name)
			}
		}
	}

	for _, name := range stale {
		log.Info("dropping index to realign", zap.String("drop", name))
		if _, err := coll.Indexes().DropOne(ctx, name); err != nil {
			log.Warn("drop existing index failed", zap.String("drop", name), zap.Error(err))
			return fmt.Errorf("%s(%s): drop %s failed: %v", coll.Name(), want.name, name, err)
		}
	}

	created, err := coll.Indexes().CreateOne(ctx, m)
	if err != nil {
		log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		if isDuplicateKeyErr(err) && want.unique {
			return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)%s",
				coll.Name(), want.name, duplicateFinder(coll.Name(), want.sig))
		}
		return fmt.Errorf("%s(%s): %v", coll.Name(), want.name, err)
	}
	log.Info("index ensured",
		zap.String("created_name", created),
		zap.Int("replaced", len(stale)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func duplicateFinder(coll, sig string) string {
	if coll == "links" && sig == "url:1" {
		return ". Duplicates exist on links.url. Example finder:\n" +
			`db.links.aggregate([{ $match: { url: { $exists: true } } }, { $group: { _id: "$url", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureLinks(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("links")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// url is unique among documents that have one; collection-mode
		// documents omit it and are not constrained.
		{
			Keys: bson.D{{Key: "url", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetSparse(true).
				SetName("uniq_links_url"),
		},
		// Free-text search over title + description
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().
				SetName("text_links_title_description"),
		},
		// Tag filter and tag aggregation
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().
				SetName("idx_links_tags"),
		},
		// Newest-first listing
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().
				SetName("idx_links_createdat__id"),
		},
		// Collection entry lookup for the optional cross-document URL check
		{
			Keys: bson.D{{Key: "urls.url", Value: 1}},
			Options: options.Index().
				SetName("idx_links_urls_url"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().
				SetName("idx_audit_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().
				SetName("idx_audit_category_type_timestamp"),
		},
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_audit_event_id"),
		},
	})
}
