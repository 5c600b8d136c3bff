// internal/app/features/photos/photo.go
package photos

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/averywhitlock/photocove/internal/app/policy/annotationpolicy"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/htmlsanitize"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/limits"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Get handles GET /photos/{photoID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Catalog.GetPhoto(ctx, chi.URLParam(r, "photoID"))
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

// UpdateCaption handles PATCH /photos/{photoID}. Only the uploader or an
// admin may edit a caption.
func (h *Handler) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	var req struct {
		Caption string `json:"caption"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	caption := htmlsanitize.Strip(req.Caption)
	if utf8.RuneCountInString(caption) > limits.MaxCaptionLength {
		httpjson.Error(w, apperr.Validation("caption exceeds %d characters", limits.MaxCaptionLength), h.Log)
		return
	}

	p, err := h.Catalog.GetPhoto(ctx, chi.URLParam(r, "photoID"))
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if !annotationpolicy.CanDeletePhoto(p, user.ID, user.IsAdmin) {
		httpjson.Error(w, apperr.Forbidden("only the uploader or an admin may edit this photo"), h.Log)
		return
	}

	p.Caption = caption
	saved, err := h.Catalog.PutPhoto(ctx, p)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, saved)
}

// Delete handles DELETE /photos/{photoID}: catalog record first, then the
// stored artifacts. A failed artifact removal is still reported even though
// the record is already gone from every listing, so the caller knows
// cleanup did not finish.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	p, err := h.Catalog.GetPhoto(ctx, chi.URLParam(r, "photoID"))
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if !annotationpolicy.CanDeletePhoto(p, user.ID, user.IsAdmin) {
		httpjson.Error(w, apperr.Forbidden("only the uploader or an admin may delete this photo"), h.Log)
		return
	}

	if err := h.Catalog.DeletePhoto(ctx, p.ID); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if p.StorageKey != "" {
		if err := h.Images.Delete(ctx, p.StorageKey); err != nil {
			h.Log.Warn("artifact delete failed after catalog removal",
				zap.String("photo_id", p.ID),
				zap.String("key", p.StorageKey),
				zap.Error(err))
			httpjson.Error(w, apperr.Upstream("photo removed but artifact cleanup failed", err), h.Log)
			return
		}
	}

	h.Log.Info("photo deleted", zap.String("photo_id", p.ID), zap.String("by", user.ID))
	w.WriteHeader(http.StatusNoContent)
}
