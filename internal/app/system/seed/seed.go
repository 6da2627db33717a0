// Package seed loads link definitions from YAML and inserts them into the
// catalog.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Entry is one link in a seed file. An entry with urls is a collection.
type Entry struct {
	Title       string                `yaml:"title"`
	URL         string                `yaml:"url"`
	Description string                `yaml:"description"`
	Tags        []string              `yaml:"tags"`
	URLs        []inputval.EntryInput `yaml:"urls"`
}

type file struct {
	Links []Entry `yaml:"links"`
}

// Parse decodes a seed document.
func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return f.Links, nil
}

// Load reads path, or the built-in sample when path is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Parse(sampleYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Link validates e and maps it to a Link.
func (e Entry) Link() (models.Link, error) {
	if len(e.URLs) > 0 {
		in := inputval.CollectionInput{Title: e.Title, Description: e.Description, Tags: e.Tags, URLs: e.URLs}
		if fe := inputval.ValidateCollection(in); len(fe) > 0 {
			return models.Link{}, fe
		}
		return inputval.PrepareCollection(in), nil
	}
	in := inputval.SingleInput{URL: e.URL, Title: e.Title, Description: e.Description, Tags: e.Tags}
	if fe := inputval.ValidateSingle(in); len(fe) > 0 {
		return models.Link{}, fe
	}
	return inputval.PrepareSingle(in), nil
}

// Creator is the part of the link store seeding needs.
type Creator interface {
	CreateAt(ctx context.Context, l models.Link, at time.Time) (models.Link, error)
}

// Result counts what Run did.
type Result struct {
	Inserted int
	Skipped  int // duplicates
	Invalid  int
	Errors   []string
}

// Options control Run. A zero MaxAge stamps every link with Now.
type Options struct {
	Now    time.Time
	MaxAge time.Duration
	Rand   *rand.Rand
}

// Run inserts entries in order, spreading created_at randomly over the
// MaxAge before Now. Duplicates and invalid entries are counted and
// skipped; any other store error stops the run.
func Run(ctx context.Context, store Creator, entries []Entry, opts Options) (Result, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	var res Result
	for i, e := range entries {
		l, err := e.Link()
		if err != nil {
			res.Invalid++
			res.Errors = append(res.Errors, fmt.Sprintf("entry %d (%s): %v", i+1, e.Title, err))
			continue
		}

		at := opts.Now
		if opts.MaxAge > 0 {
			at = at.Add(-time.Duration(opts.Rand.Int63n(int64(opts.MaxAge))))
		}

		_, err = store.CreateAt(ctx, l, at)
		switch {
		case errors.Is(err, linkstore.ErrDuplicateURL):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("entry %d (%s): %w", i+1, e.Title, err)
		default:
			res.Inserted++
		}
	}
	return res, nil
}
