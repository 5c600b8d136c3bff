// internal/app/features/roster/routes.go
package roster

import "github.com/go-chi/chi/v5"

// AdminRoutes returns the roster management subrouter, mounted under
// /admin/users behind the admin guard.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{userID}", h.Update)
	r.Delete("/{userID}", h.Delete)
	return r
}
