// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log viewer (typically at "/admin/audit").
// Access is restricted to the signed-in admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
	})

	return r
}
