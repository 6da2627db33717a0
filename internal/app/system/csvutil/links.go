// internal/app/system/csvutil/links.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
)

// ErrTooManyRows is returned when a file has more than the allowed rows.
var ErrTooManyRows = errors.New("too many rows")

// ParseLinksCSV reads rows of url,title,description,tags. The header row
// is optional. Tags within the fourth column may be separated by commas or
// semicolons. Rows are returned unvalidated; blank rows are dropped.
func ParseLinksCSV(r io.Reader, maxRows int) ([]inputval.SingleInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.TrimLeadingSpace = true

	var out []inputval.SingleInput
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if line == 1 && len(rec) > 0 {
			// Handle BOM in first cell
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec) {
				continue
			}
		}

		in := inputval.SingleInput{
			URL:         field(rec, 0),
			Title:       field(rec, 1),
			Description: field(rec, 2),
		}
		if t := field(rec, 3); t != "" {
			in.Tags = []string{strings.ReplaceAll(t, ";", ",")}
		}
		if in.URL == "" && in.Title == "" && in.Description == "" && in.Tags == nil {
			continue
		}

		if maxRows > 0 && len(out) >= maxRows {
			return nil, ErrTooManyRows
		}
		out = append(out, in)
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), "url") &&
		(len(rec) < 2 || strings.EqualFold(strings.TrimSpace(rec[1]), "title"))
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
