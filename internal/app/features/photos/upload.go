// internal/app/features/photos/upload.go
package photos

import (
	"context"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/htmlsanitize"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/limits"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload handles POST /photos. The multipart form carries the image under
// "photo", with optional "caption" and "album_id" fields. Photos uploaded
// with the same album_id group together; the album's metadata record is
// created on first use with a date-derived name.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadSize)
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		httpjson.Error(w, apperr.Validation("upload too large or malformed"), h.Log)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httpjson.Error(w, apperr.Validation("missing photo file"), h.Log)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpjson.Error(w, apperr.Validation("could not read upload"), h.Log)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	caption := htmlsanitize.Strip(r.FormValue("caption"))
	if utf8.RuneCountInString(caption) > limits.MaxCaptionLength {
		httpjson.Error(w, apperr.Validation("caption exceeds %d characters", limits.MaxCaptionLength), h.Log)
		return
	}

	photoID := uuid.NewString()
	stored, err := h.Images.Store(ctx, photoID, data, contentType)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	now := time.Now().UTC()
	p := models.Photo{
		ID:           photoID,
		UploaderID:   user.ID,
		UploaderName: user.Name,
		UploadedAt:   now,
		URL:          stored.URL,
		ThumbnailURL: stored.ThumbnailURL,
		OriginalURL:  stored.OriginalURL,
		StorageKey:   stored.Key,
		Caption:      caption,
		TakenAt:      stored.TakenAt,
		Location:     stored.Location,
	}

	if albumID := r.FormValue("album_id"); albumID != "" {
		meta, err := h.Catalog.EnsureAlbum(ctx, albumID, user.ID, now)
		if err != nil {
			h.cleanupArtifact(stored.Key)
			httpjson.Error(w, err, h.Log)
			return
		}
		p.AlbumID = albumID
		p.AlbumName = meta.Name
	}

	saved, err := h.Catalog.PutPhoto(ctx, p)
	if err != nil {
		h.cleanupArtifact(stored.Key)
		httpjson.Error(w, err, h.Log)
		return
	}

	h.Log.Info("photo uploaded",
		zap.String("photo_id", saved.ID),
		zap.String("uploader_id", user.ID),
		zap.String("album_id", saved.AlbumID),
		zap.Int("bytes", len(data)))
	httpjson.Write(w, http.StatusCreated, saved)
}

// cleanupArtifact removes a stored image after a failed catalog write so
// the bucket does not accumulate orphans. Failure here is only logged; the
// record write already failed and that error is the one the caller sees.
func (h *Handler) cleanupArtifact(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	if err := h.Images.Delete(ctx, key); err != nil {
		h.Log.Warn("orphaned artifact cleanup failed", zap.String("key", key), zap.Error(err))
	}
}
