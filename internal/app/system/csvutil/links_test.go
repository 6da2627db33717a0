package csvutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
)

func TestParseLinksCSV(t *testing.T) {
	data := "\ufeffurl,title,description,tags\n" +
		"https://go.dev,Go,The Go site,\"go, lang\"\n" +
		"\n" +
		"https://pkg.go.dev,Packages,,go;docs\n" +
		"https://short.example.com,Short\n"

	rows, err := ParseLinksCSV(strings.NewReader(data), 0)
	if err != nil {
		t.Fatalf("ParseLinksCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].URL != "https://go.dev" || rows[0].Description != "The Go site" {
		t.Errorf("row 0: %+v", rows[0])
	}
	if rows[2].Description != "" || rows[2].Tags != nil {
		t.Errorf("row 2 should have no description or tags: %+v", rows[2])
	}

	// Tags are flattened when the rows are cleaned.
	clean := rows[1].Clean()
	if len(clean.Tags) != 2 || clean.Tags[0] != "go" || clean.Tags[1] != "docs" {
		t.Errorf("row 1 tags: got %v, want [go docs]", clean.Tags)
	}
}

func TestParseLinksCSV_NoHeader(t *testing.T) {
	rows, err := ParseLinksCSV(strings.NewReader("https://go.dev,Go\n"), 0)
	if err != nil {
		t.Fatalf("ParseLinksCSV failed: %v", err)
	}
	want := []inputval.SingleInput{{URL: "https://go.dev", Title: "Go"}}
	if len(rows) != 1 || rows[0].URL != want[0].URL || rows[0].Title != want[0].Title {
		t.Errorf("got %+v, want %+v", rows, want)
	}
}

func TestParseLinksCSV_Errors(t *testing.T) {
	if _, err := ParseLinksCSV(strings.NewReader("a,b\nc,d\ne,f\n"), 2); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("expected ErrTooManyRows, got %v", err)
	}
	if _, err := ParseLinksCSV(strings.NewReader("\"unterminated,b\n"), 0); err == nil {
		t.Error("expected a parse error")
	}
}
