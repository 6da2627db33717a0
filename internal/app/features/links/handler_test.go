package links_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	"github.com/dalemusser/linkcatalog/internal/app/features/links"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/indexes"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"github.com/dalemusser/linkcatalog/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) (*links.Handler, *linkstore.Store) {
	t.Helper()
	logger := zap.NewNop()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	store := linkstore.New(db)
	return links.NewHandler(store, sessionMgr, 10, 5, uierrors.NewErrorLogger(logger), nil, logger), store
}

func decode(t *testing.T, rec *testutil.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

type linkResponse struct {
	Notice string `json:"notice"`
	Link   struct {
		ID     string         `json:"id"`
		Mode   string         `json:"mode"`
		Title  string         `json:"title"`
		Tags   []string       `json:"tags"`
		URL    string         `json:"url"`
		URLs   []models.Entry `json:"urls"`
		Domain string         `json:"domain"`
	} `json:"link"`
}

func TestHandleCreate_Single(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, store := newTestHandler(t, db)

	body := `{"url":"https://golang.org/doc","title":"  Go docs ","tags":["Go","Docs","go"]}`
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusCreated)

	var resp linkResponse
	decode(t, rec, &resp)
	if resp.Notice != "URL added successfully!" {
		t.Errorf("notice: got %q", resp.Notice)
	}
	if resp.Link.Mode != "single" || resp.Link.Title != "Go docs" || resp.Link.Domain != "golang.org" {
		t.Errorf("unexpected link: %+v", resp.Link)
	}
	if len(resp.Link.Tags) != 2 || resp.Link.Tags[0] != "go" || resp.Link.Tags[1] != "docs" {
		t.Errorf("tags: got %v, want [go docs]", resp.Link.Tags)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalLinks != 1 {
		t.Errorf("TotalLinks: got %d, want 1", stats.TotalLinks)
	}
}

func TestHandleCreate_TagsAsString(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	body := `{"url":"https://go.dev/blog","title":"<em>Go</em> blog","tags":"Go, Blog"}`
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusCreated)

	var resp linkResponse
	decode(t, rec, &resp)
	if resp.Link.Title != "Go blog" {
		t.Errorf("title: got %q, want %q", resp.Link.Title, "Go blog")
	}
	if len(resp.Link.Tags) != 2 || resp.Link.Tags[0] != "go" || resp.Link.Tags[1] != "blog" {
		t.Errorf("tags: got %v, want [go blog]", resp.Link.Tags)
	}
}

func TestHandleCreate_BrowserRedirects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	form := url.Values{
		"url":   {"https://example.org"},
		"title": {"Example"},
		"tags":  {"a, b"},
	}
	req := testutil.NewAdminFormRequest("/admin/links", form)
	req.Header.Set("Accept", "text/html")

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertRedirect(t, links.AdminHome)
}

func TestHandleCreate_HTMXRedirect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	form := url.Values{"url": {"https://example.org"}, "title": {"Example"}}
	req := testutil.NewAdminFormRequest("/admin/links", form)
	req.Header.Set("HX-Request", "true")

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != links.AdminHome {
		t.Errorf("HX-Redirect: got %q, want %q", got, links.AdminHome)
	}
}

func TestHandleCreate_CollectionForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	form := url.Values{
		"mode":            {"collection"},
		"title":           {"Reading list"},
		"urls.0.url":      {"https://a.example.com"},
		"urls.0.subtitle": {"First"},
		"urls.1.url":      {"https://b.example.com"},
		"urls.2.url":      {""},
	}
	req := testutil.NewAdminFormRequest("/admin/links", form)
	req.Header.Set("Accept", "application/json")

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var resp linkResponse
	decode(t, rec, &resp)
	if resp.Link.Mode != "collection" {
		t.Errorf("mode: got %q, want collection", resp.Link.Mode)
	}
	if len(resp.Link.URLs) != 2 {
		t.Fatalf("urls: got %d, want 2", len(resp.Link.URLs))
	}
	if resp.Link.URLs[0].Subtitle != "First" {
		t.Errorf("subtitle: got %q, want First", resp.Link.URLs[0].Subtitle)
	}
}

func TestHandleCreate_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	body := `{"url":"https://dup.example.com","title":"Dup"}`
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "This URL already exists")
}

func TestHandleCreate_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	tests := []struct {
		name string
		body string
		key  string
	}{
		{"missing title", `{"url":"https://x.example.com"}`, "title"},
		{"bad url", `{"url":"ftp://x.example.com","title":"X"}`, "url"},
		{"unknown mode", `{"mode":"bulk","url":"https://x.example.com","title":"X"}`, "mode"},
		{"empty collection", `{"mode":"collection","title":"X"}`, "urls"},
		{"markup-only title", `{"url":"https://x.example.com","title":"<b></b>"}`, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", tt.body))
			rec.AssertStatus(t, http.StatusUnprocessableEntity)

			var resp struct {
				Errors map[string]string `json:"errors"`
			}
			decode(t, rec, &resp)
			if _, ok := resp.Errors[tt.key]; !ok {
				t.Errorf("expected error for %q, got %v", tt.key, resp.Errors)
			}
		})
	}
}

func TestHandleCreate_Batch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLinkWithURL(ctx, "Existing", "https://exists.example.com")

	body := `{"mode":"batch","items":[
		{"url":"https://one.example.com","title":"One","tags":["x"]},
		{"url":"https://two.example.com","title":"Two"},
		{"url":"nope","title":"Bad"},
		{"url":"https://exists.example.com","title":"Again"}
	]}`
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		Created    int      `json:"created"`
		Duplicates int      `json:"duplicates"`
		Failed     int      `json:"failed"`
		Errors     []string `json:"errors"`
	}
	decode(t, rec, &resp)
	if resp.Created != 2 || resp.Duplicates != 1 || resp.Failed != 1 {
		t.Errorf("got created=%d duplicates=%d failed=%d, want 2/1/1", resp.Created, resp.Duplicates, resp.Failed)
	}
	if len(resp.Errors) != 2 {
		t.Errorf("errors: got %v, want 2 entries", resp.Errors)
	}
}

func TestHandleCreate_BatchRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"none valid", `{"mode":"batch","items":[{"url":"bad","title":"Bad"}]}`, "Item 1"},
		{"empty", `{"mode":"batch","items":[]}`, "No URLs submitted"},
		{"too many", `{"items":[
			{"url":"https://1.example.com","title":"1"},
			{"url":"https://2.example.com","title":"2"},
			{"url":"https://3.example.com","title":"3"},
			{"url":"https://4.example.com","title":"4"},
			{"url":"https://5.example.com","title":"5"},
			{"url":"https://6.example.com","title":"6"}
		]}`, "max 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", tt.body))
			rec.AssertStatus(t, http.StatusUnprocessableEntity)
			rec.AssertContains(t, tt.want)
		})
	}
}

func TestHandleCreate_BatchAllDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLinkWithURL(ctx, "Existing", "https://exists.example.com")

	body := `{"items":[{"url":"https://exists.example.com","title":"Again"}]}`
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", body))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"duplicates":1`)
}

func TestServeView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := fx.CreateLink(ctx, "Viewed", "go")

	req := testutil.WithChiURLParam(testutil.NewAdminRequest("GET", "/admin/links/"+l.ID.Hex()), "id", l.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Viewed")

	for _, id := range []string{"not-an-id", "64b000000000000000000000"} {
		req := testutil.WithChiURLParam(testutil.NewAdminRequest("GET", "/admin/links/"+id), "id", id)
		rec := testutil.NewRecorder()
		h.ServeView(rec, req)
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertContains(t, "URL not found")
	}
}

func TestHandleEdit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, store := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := fx.CreateLinkWithURL(ctx, "Before", "https://before.example.com", "old")
	id := l.ID.Hex()

	body := `{"url":"https://after.example.com","title":"After","tags":["new"]}`
	req := testutil.WithChiURLParam(testutil.NewAdminJSONRequest("POST", "/admin/links/"+id+"/edit", body), "id", id)
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "URL updated successfully!")

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "After" || got.URL != "https://after.example.com" {
		t.Errorf("unexpected link after edit: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "new" {
		t.Errorf("tags: got %v, want [new]", got.Tags)
	}
}

func TestHandleEdit_SwitchesToCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, store := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := fx.CreateLink(ctx, "Single")
	id := l.ID.Hex()

	body := `{"mode":"collection","title":"Now many","urls":[{"url":"https://m1.example.com"},{"url":"https://m2.example.com"}]}`
	req := testutil.WithChiURLParam(testutil.NewAdminJSONRequest("POST", "/admin/links/"+id+"/edit", body), "id", id)
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Kind() != models.ModeCollection || got.URL != "" || len(got.URLs) != 2 {
		t.Errorf("unexpected link after switch: %+v", got)
	}
}

func TestHandleEdit_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLinkWithURL(ctx, "Taken", "https://taken.example.com")
	l := fx.CreateLinkWithURL(ctx, "Mine", "https://mine.example.com")

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		want   string
	}{
		{"missing", "64b000000000000000000000", `{"url":"https://x.example.com","title":"X"}`, http.StatusNotFound, "URL not found"},
		{"duplicate", l.ID.Hex(), `{"url":"https://taken.example.com","title":"X"}`, http.StatusConflict, "This URL already exists"},
		{"invalid", l.ID.Hex(), `{"url":"https://x.example.com","title":""}`, http.StatusUnprocessableEntity, "Title is required"},
		{"batch", l.ID.Hex(), `{"mode":"batch"}`, http.StatusUnprocessableEntity, "only available when adding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithChiURLParam(testutil.NewAdminJSONRequest("POST", "/admin/links/"+tt.id+"/edit", tt.body), "id", tt.id)
			rec := testutil.NewRecorder()
			h.HandleEdit(rec, req)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.want)
		})
	}
}

func TestHandleDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, store := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := fx.CreateLink(ctx, "Doomed")
	id := l.ID.Hex()

	req := testutil.WithChiURLParam(testutil.NewAdminJSONRequest("POST", "/admin/links/"+id+"/delete", ""), "id", id)
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "URL deleted successfully!")

	if _, err := store.GetByID(ctx, id); !errors.Is(err, linkstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	rec = testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Failed to delete URL")
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		fx.CreateLinkAt(ctx, "Link", base.Add(time.Duration(i)*time.Minute))
	}
	fx.CreateLink(ctx, "Tagged", "go")

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAdminRequest("GET", "/admin/?page=2"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Links []json.RawMessage `json:"links"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
		Pages int               `json:"pages"`
		User  string            `json:"user"`
		Stats models.Stats      `json:"stats"`
	}
	decode(t, rec, &resp)
	if resp.Total != 13 || resp.Page != 2 || resp.Pages != 2 || len(resp.Links) != 3 {
		t.Errorf("got total=%d page=%d pages=%d links=%d, want 13/2/2/3", resp.Total, resp.Page, resp.Pages, len(resp.Links))
	}
	if resp.User != "admin" {
		t.Errorf("user: got %q, want admin", resp.User)
	}
	if resp.Stats.TotalLinks != 13 || resp.Stats.TotalTags != 1 {
		t.Errorf("stats: got %+v", resp.Stats)
	}
}

func TestServeTags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLink(ctx, "A", "go", "web")
	fx.CreateLink(ctx, "B", "go")

	rec := testutil.NewRecorder()
	h.ServeTags(rec, testutil.NewAdminRequest("GET", "/admin/tags"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Tags []models.TagCount `json:"tags"`
	}
	decode(t, rec, &resp)
	if len(resp.Tags) != 2 || resp.Tags[0].Tag != "go" || resp.Tags[0].Count != 2 {
		t.Errorf("unexpected tags: %+v", resp.Tags)
	}
}

func TestRoutes_RequireAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	router := links.Routes(h, h.SessionMgr)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/"},
		{"GET", "/tags"},
		{"POST", "/links"},
		{"GET", "/links/64b000000000000000000000"},
		{"POST", "/links/64b000000000000000000000/edit"},
		{"POST", "/links/64b000000000000000000000/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := testutil.NewRequest(tt.method, tt.path)
			req.Header.Set("Accept", "application/json")
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)
			rec.AssertStatus(t, http.StatusUnauthorized)
		})
	}
}

// downStore fails every call as an unreachable database would.
type downStore struct{ links.Store }

func (downStore) Create(context.Context, models.Link) (models.Link, error) {
	return models.Link{}, linkstore.ErrUnavailable
}

func (downStore) List(context.Context, linkstore.ListQuery) (models.ListResult, error) {
	return models.ListResult{}, linkstore.ErrUnavailable
}

func TestHandlers_Unavailable(t *testing.T) {
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	h := links.NewHandler(downStore{}, sessionMgr, 10, 5, uierrors.NewErrorLogger(logger), nil, logger)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAdminRequest("GET", "/admin/"))
	rec.AssertStatus(t, http.StatusServiceUnavailable)

	rec = testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAdminJSONRequest("POST", "/admin/links", `{"url":"https://x.example.com","title":"X"}`))
	rec.AssertStatus(t, http.StatusServiceUnavailable)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func csvUpload(t *testing.T, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "links.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := testutil.NewAdminRequest("POST", "/admin/links/import")
	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}

func TestHandleImport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, store := newTestHandler(t, db)

	csv := "url,title,description,tags\n" +
		"https://go.dev,Go,The Go site,go;lang\n" +
		"https://pkg.go.dev,Packages,,go\n" +
		"not-a-url,Broken,,\n"

	rec := testutil.NewRecorder()
	h.HandleImport(rec, csvUpload(t, csv))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"created":2`)
	rec.AssertContains(t, `"failed":1`)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	tags, err := store.AllTags(ctx)
	if err != nil {
		t.Fatalf("AllTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Tag != "go" || tags[0].Count != 2 {
		t.Errorf("unexpected tags: %+v", tags)
	}
}

func TestHandleImport_Rejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)

	rec := testutil.NewRecorder()
	h.HandleImport(rec, csvUpload(t, "\"broken,csv\n"))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "Could not read CSV")

	req := testutil.NewAdminFormRequest("/admin/links/import", url.Values{"x": {"y"}})
	rec = testutil.NewRecorder()
	h.HandleImport(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDelete_BrowserReturn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := fx.CreateLink(ctx, "Doomed")
	id := l.ID.Hex()

	form := url.Values{"return": {"/admin/?tag=go&page=2"}}
	req := testutil.WithChiURLParam(testutil.NewAdminFormRequest("/admin/links/"+id+"/delete", form), "id", id)
	req.Header.Set("Accept", "text/html")

	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertRedirect(t, "/admin/?tag=go&page=2")
}
