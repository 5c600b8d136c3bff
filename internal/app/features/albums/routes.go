// internal/app/features/albums/routes.go
package albums

import (
	"github.com/averywhitlock/photocove/internal/app/features/annotations"
	"github.com/go-chi/chi/v5"
)

// Routes returns the album subrouter; the caller mounts it under
// /photos/albums behind the signed-in guard.
func Routes(h *Handler, ann *annotations.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Route("/{albumID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Rename)
		r.Delete("/", h.Delete)
		ann.Mount(r)
	})

	return r
}
