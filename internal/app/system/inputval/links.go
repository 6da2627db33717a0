package inputval

import (
	"fmt"
	"strings"

	"github.com/dalemusser/linkcatalog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/linkcatalog/internal/app/system/normalize"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
)

// Field limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxTags              = 20
	MaxCollectionURLs    = 10
	MaxSubtitleLength    = 200

	// DefaultMaxBatch is the batch size used when none is configured.
	DefaultMaxBatch = 50
)

// SingleInput is a single-URL submission.
type SingleInput struct {
	URL         string `json:"url" validate:"required,httpurl" label:"URL"`
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Description string `json:"description" validate:"max=1000" label:"Description"`
	Tags        Tags   `json:"tags" validate:"max=20" label:"tags"`
}

// EntryInput is one URL of a collection submission.
type EntryInput struct {
	URL      string `json:"url" yaml:"url" validate:"required,httpurl" label:"URL"`
	Subtitle string `json:"subtitle" yaml:"subtitle" validate:"max=200" label:"Subtitle"`
}

// CollectionInput is a multi-URL submission under one title.
type CollectionInput struct {
	Title       string       `json:"title" validate:"required,max=200" label:"Title"`
	Description string       `json:"description" validate:"max=1000" label:"Description"`
	Tags        Tags         `json:"tags" validate:"max=20" label:"tags"`
	URLs        []EntryInput `json:"urls" validate:"min=1,max=10,dive" label:"URLs"`
}

// Clean returns the form that is stored: whitespace trimmed, markup
// stripped from text fields and tags normalized. Validation and
// preparation both start from the raw input and clean it once, so the
// rules see exactly what will be persisted.
func (in SingleInput) Clean() SingleInput {
	return SingleInput{
		URL:         normalize.Text(in.URL),
		Title:       plain(in.Title),
		Description: plain(in.Description),
		Tags:        cleanTags(in.Tags),
	}
}

// Clean is SingleInput.Clean for collections; subtitles are stripped too.
func (in CollectionInput) Clean() CollectionInput {
	out := CollectionInput{
		Title:       plain(in.Title),
		Description: plain(in.Description),
		Tags:        cleanTags(in.Tags),
		URLs:        make([]EntryInput, 0, len(in.URLs)),
	}
	for _, e := range in.URLs {
		out.URLs = append(out.URLs, EntryInput{
			URL:      normalize.Text(e.URL),
			Subtitle: plain(e.Subtitle),
		})
	}
	return out
}

func plain(s string) string {
	return htmlsanitize.PlainText(normalize.Text(s))
}

// cleanTags accepts tags either as a list or as comma-separated strings
// (a form field "tags=a, b" decodes to a one-element list).
func cleanTags(in Tags) Tags {
	return normalize.Tags(strings.Join(in, ","))
}

// ValidateSingle checks every field of a single-URL submission.
func ValidateSingle(in SingleInput) FieldErrors {
	return check(in.Clean())
}

// ValidateCollection checks a collection submission. An empty urls list
// yields one "urls" error rather than per-entry errors; entry errors are
// keyed as urls[i].url and urls[i].subtitle.
func ValidateCollection(in CollectionInput) FieldErrors {
	return check(in.Clean())
}

// BatchResult partitions a batch into items ready to persist and
// formatted errors for the rest.
type BatchResult struct {
	Valid  []SingleInput
	Errors []string
}

// OK reports whether at least one item can be persisted.
func (b BatchResult) OK() bool { return len(b.Valid) > 0 }

// ValidateBatch validates repeated single-URL submissions. A batch that is
// empty or larger than max is rejected as a whole with a single message.
// Valid items are returned as submitted; PrepareSingle cleans them.
func ValidateBatch(items []SingleInput, max int) BatchResult {
	if max <= 0 {
		max = DefaultMaxBatch
	}
	switch {
	case len(items) == 0:
		return BatchResult{Errors: []string{"No URLs submitted"}}
	case len(items) > max:
		return BatchResult{Errors: []string{fmt.Sprintf("Too many URLs in one batch (max %d)", max)}}
	}

	var res BatchResult
	for i, it := range items {
		if fe := check(it.Clean()); len(fe) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Item %d: %s", i+1, fe.Error()))
			continue
		}
		res.Valid = append(res.Valid, it)
	}
	return res
}

// PrepareSingle maps a validated submission to a single-mode Link.
func PrepareSingle(in SingleInput) models.Link {
	in = in.Clean()
	return models.Link{
		Mode:        models.ModeSingle,
		URL:         in.URL,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
	}
}

// PrepareCollection maps a validated submission to a collection-mode Link.
func PrepareCollection(in CollectionInput) models.Link {
	in = in.Clean()
	entries := make([]models.Entry, 0, len(in.URLs))
	for _, e := range in.URLs {
		entries = append(entries, models.Entry{
			URL:      e.URL,
			Subtitle: e.Subtitle,
		})
	}
	return models.Link{
		Mode:        models.ModeCollection,
		URLs:        entries,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
	}
}
