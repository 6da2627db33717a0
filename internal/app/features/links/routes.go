// internal/app/features/links/routes.go
package links

import (
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin area. Every route requires the admin session.
//
// Example from bootstrap:
//
//	h := links.NewHandler(store, sessionMgr, perPage, maxBatch, errLog, audit, logger)
//	ar.Mount("/", links.Routes(h, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + STATS
		pr.Get("/", h.ServeList)
		pr.Get("/tags", h.ServeTags)

		// CREATE (single, collection, batch)
		pr.Post("/links", h.HandleCreate)
		pr.Post("/links/import", h.HandleImport)

		// VIEW / EDIT
		pr.Get("/links/{id}", h.ServeView)
		pr.Post("/links/{id}/edit", h.HandleEdit)

		// DELETE
		pr.Post("/links/{id}/delete", h.HandleDelete)
	})

	return r
}
