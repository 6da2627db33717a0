package models

import (
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mode discriminates the two shapes a Link can take.
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeCollection Mode = "collection"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeCollection
}

// Entry is one URL inside a collection-mode Link.
type Entry struct {
	URL      string `bson:"url" json:"url"`
	Subtitle string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
}

// Link is one catalog entry. A single-mode link carries URL; a
// collection-mode link carries URLs and never stores a top-level url field,
// which keeps it out of the sparse unique index on url.
type Link struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Mode        Mode               `bson:"mode" json:"mode"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`

	URL  string  `bson:"url,omitempty" json:"url,omitempty"`
	URLs []Entry `bson:"urls,omitempty" json:"urls,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Kind returns the link's mode. Documents written before the mode field
// existed are classified by which URL field they hold.
func (l Link) Kind() Mode {
	if l.Mode.Valid() {
		return l.Mode
	}
	if len(l.URLs) > 0 {
		return ModeCollection
	}
	return ModeSingle
}

// AllURLs returns every URL the link points at, in display order.
func (l Link) AllURLs() []string {
	if l.Kind() == ModeCollection {
		out := make([]string, 0, len(l.URLs))
		for _, e := range l.URLs {
			out = append(out, e.URL)
		}
		return out
	}
	if l.URL == "" {
		return nil
	}
	return []string{l.URL}
}

// Domain returns the host of a single-mode link's URL, or "" when there is
// none or it does not parse.
func (l Link) Domain() string {
	if l.Kind() != ModeSingle || l.URL == "" {
		return ""
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// LinkFields is a partial update. Nil fields are left untouched.
// Setting URL switches the link to single mode; setting URLs switches it
// to collection mode. Setting both is rejected by the store.
type LinkFields struct {
	Title       *string
	Description *string
	Tags        []string // nil means untouched; empty slice clears tags
	URL         *string
	URLs        []Entry // nil means untouched
}

// Empty reports whether no field is named.
func (f LinkFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Tags == nil && f.URL == nil && f.URLs == nil
}

// FieldsFrom returns a full replacement of every content field of l.
func FieldsFrom(l Link) LinkFields {
	title, desc := l.Title, l.Description
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	f := LinkFields{Title: &title, Description: &desc, Tags: tags}
	if l.Kind() == ModeCollection {
		f.URLs = l.URLs
	} else {
		u := l.URL
		f.URL = &u
	}
	return f
}

// TagCount is one row of the tag aggregation.
type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int    `bson:"count" json:"count"`
}

// Stats summarizes the catalog.
type Stats struct {
	TotalLinks int64      `json:"total_links"`
	TotalTags  int        `json:"total_tags"`
	Tags       []TagCount `json:"tags"`
}

// ListResult is one page of a filtered listing.
type ListResult struct {
	Links   []Link `json:"links"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Pages   int    `json:"pages"`
}
