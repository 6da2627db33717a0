// internal/app/features/logout/routes.go
package logout

import (
	"github.com/go-chi/chi/v5"
)

// Routes is public: logging out without a session just clears the cookie.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeLogout)
	return r
}
