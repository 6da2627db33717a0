// internal/app/features/links/import.go
package links

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/linkcatalog/internal/app/system/csvutil"
)

// HandleImport handles POST /admin/links/import: a multipart "file" field
// holding url,title,description,tags rows. The rows go through the same
// path as a batch submission, with the CSV row limit in place of the
// batch limit.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "import: bad upload", err, "Upload a CSV file of at most 1 MB.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "import: missing file", err, "Choose a CSV file to upload.")
		return
	}
	defer file.Close()

	items, err := csvutil.ParseLinksCSV(file, csvutil.MaxRows)
	switch {
	case errors.Is(err, csvutil.ErrTooManyRows):
		h.reject(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("Too many rows (max %d)", csvutil.MaxRows))
		return
	case err != nil:
		h.reject(w, r, http.StatusUnprocessableEntity, "Could not read CSV: "+err.Error())
		return
	}

	h.createBatch(w, r, items, csvutil.MaxRows)
}
