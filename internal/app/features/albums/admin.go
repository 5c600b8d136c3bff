// internal/app/features/albums/admin.go
package albums

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/htmlsanitize"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/limits"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// Rename handles PUT /photos/albums/{albumID} with body {"name": "..."}. Any
// household member may rename; the new name cascades onto every member
// photo's denormalized album_name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	var req struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	name := htmlsanitize.Strip(req.Name)
	if name == "" {
		httpjson.Error(w, apperr.Validation("album name is required"), h.Log)
		return
	}
	if utf8.RuneCountInString(name) > limits.MaxAlbumNameLength {
		httpjson.Error(w, apperr.Validation("album name exceeds %d characters", limits.MaxAlbumNameLength), h.Log)
		return
	}

	albumID := albumIDParam(r)
	if err := h.Catalog.RenameAlbum(ctx, albumID, name); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	h.logAlbumChange("renamed", albumID, user.ID)
	meta, err := h.Catalog.GetAlbumMetadata(ctx, albumID)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, meta)
}

// Delete handles DELETE /photos/albums/{albumID}. Admin only, and refused
// while the album still has member photos.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)
	if !user.IsAdmin {
		httpjson.Error(w, apperr.Forbidden("only an admin may delete an album"), h.Log)
		return
	}

	albumID := albumIDParam(r)
	if err := h.Catalog.DeleteAlbumMetadata(ctx, albumID); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	h.logAlbumChange("deleted", albumID, user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func albumIDParam(r *http.Request) string {
	return chi.URLParam(r, "albumID")
}
