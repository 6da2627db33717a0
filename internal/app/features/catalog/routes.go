// internal/app/features/catalog/routes.go
package catalog

import "github.com/go-chi/chi/v5"

// Routes mounts the public listing. It needs no session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
