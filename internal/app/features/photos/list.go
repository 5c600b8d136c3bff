// internal/app/features/photos/list.go
package photos

import (
	"context"
	"net/http"

	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// listResponse is one page of any photo listing. LastKey is empty on the
// final page; clients echo it back verbatim to continue.
type listResponse struct {
	Photos  []models.Photo `json:"photos"`
	LastKey string         `json:"lastKey,omitempty"`
}

// List handles GET /photos: the whole household's photos, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, limit := pageParams(r)
	photos, next, err := h.Catalog.ChronologicalPhotos(ctx, token, limit)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, listResponse{Photos: emptyToSlice(photos), LastKey: next})
}

// ListByUploader handles GET /photos/user/{userID}.
func (h *Handler) ListByUploader(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, limit := pageParams(r)
	photos, next, err := h.Catalog.PhotosByUploader(ctx, chi.URLParam(r, "userID"), token, limit)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, listResponse{Photos: emptyToSlice(photos), LastKey: next})
}

// ListByAlbum handles GET /photos/album/{albumID}. With ?countOnly=1 it
// returns just the member count, which the album list uses for cheap
// badge refreshes.
func (h *Handler) ListByAlbum(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "countOnly") == "1" {
		n, err := h.Catalog.CountByAlbum(ctx, chi.URLParam(r, "albumID"))
		if err != nil {
			httpjson.Error(w, err, h.Log)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]int64{"count": n})
		return
	}

	token, limit := pageParams(r)
	photos, next, err := h.Catalog.PhotosByAlbum(ctx, chi.URLParam(r, "albumID"), token, limit)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, listResponse{Photos: emptyToSlice(photos), LastKey: next})
}

// emptyToSlice keeps "photos": [] in the JSON instead of null.
func emptyToSlice(photos []models.Photo) []models.Photo {
	if photos == nil {
		return []models.Photo{}
	}
	return photos
}
