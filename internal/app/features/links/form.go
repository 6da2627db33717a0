// internal/app/features/links/form.go
package links

import (
	"strings"

	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
)

const modeBatch = "batch"

// linkForm carries every create/edit field. Forms use "urls.N.url" and
// "items.N.title" keys; JSON bodies use the same names.
type linkForm struct {
	Mode        string                 `json:"mode"`
	URL         string                 `json:"url"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Tags        inputval.Tags          `json:"tags"`
	URLs        []inputval.EntryInput  `json:"urls"`
	Items       []inputval.SingleInput `json:"items"`
}

// resolveMode returns the explicit mode or infers one from which fields
// are present, falling back to def.
func (f linkForm) resolveMode(def models.Mode) string {
	if m := strings.ToLower(strings.TrimSpace(f.Mode)); m != "" {
		return m
	}
	switch {
	case len(f.Items) > 0:
		return modeBatch
	case len(f.URLs) > 0:
		return string(models.ModeCollection)
	case f.URL != "":
		return string(models.ModeSingle)
	}
	return string(def)
}

func (f linkForm) single() inputval.SingleInput {
	return inputval.SingleInput{
		URL:         f.URL,
		Title:       f.Title,
		Description: f.Description,
		Tags:        f.Tags,
	}
}

// collection drops entirely blank rows, which forms submit for unused
// inputs.
func (f linkForm) collection() inputval.CollectionInput {
	in := inputval.CollectionInput{
		Title:       f.Title,
		Description: f.Description,
		Tags:        f.Tags,
	}
	for _, e := range f.URLs {
		if strings.TrimSpace(e.URL) == "" && strings.TrimSpace(e.Subtitle) == "" {
			continue
		}
		in.URLs = append(in.URLs, e)
	}
	return in
}

func (f linkForm) batch() []inputval.SingleInput {
	var out []inputval.SingleInput
	for _, it := range f.Items {
		if strings.TrimSpace(it.URL) == "" && strings.TrimSpace(it.Title) == "" &&
			strings.TrimSpace(it.Description) == "" && len(it.Tags) == 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// prepare validates the single or collection submission and maps it to a
// Link. Batch is handled separately.
func (f linkForm) prepare(mode string) (models.Link, inputval.FieldErrors) {
	switch mode {
	case string(models.ModeSingle):
		in := f.single()
		if fe := inputval.ValidateSingle(in); len(fe) > 0 {
			return models.Link{}, fe
		}
		return inputval.PrepareSingle(in), nil
	case string(models.ModeCollection):
		in := f.collection()
		if fe := inputval.ValidateCollection(in); len(fe) > 0 {
			return models.Link{}, fe
		}
		return inputval.PrepareCollection(in), nil
	}
	return models.Link{}, inputval.FieldErrors{"mode": "Mode must be single, collection or batch"}
}
