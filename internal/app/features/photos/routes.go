// internal/app/features/photos/routes.go
package photos

import (
	"github.com/averywhitlock/photocove/internal/app/features/annotations"
	"github.com/go-chi/chi/v5"
)

// Routes returns the photo subrouter; the caller mounts it under /photos
// behind the signed-in guard.
func Routes(h *Handler, ann *annotations.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/upload", h.Upload)
	r.Get("/user/{userID}", h.ListByUploader)
	r.Get("/album/{albumID}", h.ListByAlbum)

	r.Route("/{photoID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.UpdateCaption)
		r.Delete("/", h.Delete)
		ann.Mount(r)
	})

	return r
}
