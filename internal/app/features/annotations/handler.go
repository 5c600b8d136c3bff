// internal/app/features/annotations/handler.go

// Package annotations serves the reaction, comment, and tag endpoints.
// The same router mounts under photos and albums; OwnerID maps the request
// to the catalog record the annotations attach to.
package annotations

import (
	"context"
	"net/http"
	"unicode/utf8"

	catalogstore "github.com/averywhitlock/photocove/internal/app/store/catalog"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/htmlsanitize"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/limits"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the slice of the catalog store annotations need.
type Catalog interface {
	ToggleReaction(ctx context.Context, ownerID string, by catalogstore.Author, typ string) (models.Reaction, bool, error)
	RemoveReaction(ctx context.Context, ownerID, reactionID, requesterID string, requesterIsAdmin bool) error
	AddComment(ctx context.Context, ownerID string, by catalogstore.Author, body string) (models.Comment, error)
	DeleteComment(ctx context.Context, ownerID, commentID, requesterID string, requesterIsAdmin bool) error
	AddTag(ctx context.Context, ownerID, tag string) (string, error)
	RemoveTag(ctx context.Context, ownerID, tag string) error
}

// Handler serves annotation endpoints for one owner kind.
type Handler struct {
	Catalog Catalog
	Log     *zap.Logger

	// OwnerID resolves the catalog record id the mounted routes annotate.
	OwnerID func(r *http.Request) string
}

// ForPhotos annotates photo records addressed by the photoID URL param.
func ForPhotos(catalog Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		Log:     logger,
		OwnerID: func(r *http.Request) string { return chi.URLParam(r, "photoID") },
	}
}

// ForAlbums annotates album metadata records addressed by the albumID URL
// param.
func ForAlbums(catalog Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		Log:     logger,
		OwnerID: func(r *http.Request) string {
			return models.AlbumMetadataID(chi.URLParam(r, "albumID"))
		},
	}
}

// Mount registers the annotation routes on an owner subrouter that already
// carries the owner's URL param.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/reactions", h.ToggleReaction)
	r.Delete("/reactions/{reactionID}", h.RemoveReaction)
	r.Post("/comments", h.AddComment)
	r.Delete("/comments/{commentID}", h.DeleteComment)
	r.Post("/tags", h.AddTag)
	r.Delete("/tags/{tag}", h.RemoveTag)
}

// ToggleReaction handles POST .../reactions with body {"type": "..."}.
// Toggling an existing (author, type) pair removes it.
func (h *Handler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	var req struct {
		Type string `json:"type"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if utf8.RuneCountInString(req.Type) > limits.MaxReactionTypeLength {
		httpjson.Error(w, apperr.Validation("reaction type exceeds %d characters", limits.MaxReactionTypeLength), h.Log)
		return
	}

	reaction, added, err := h.Catalog.ToggleReaction(ctx, h.OwnerID(r), author(user), req.Type)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"reaction": reaction,
		"added":    added,
	})
}

// RemoveReaction handles DELETE .../reactions/{reactionID}.
func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)
	err := h.Catalog.RemoveReaction(ctx, h.OwnerID(r), chi.URLParam(r, "reactionID"), user.ID, user.IsAdmin)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddComment handles POST .../comments with body {"body": "..."}.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	var req struct {
		Body string `json:"body"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	body := htmlsanitize.Strip(req.Body)
	if utf8.RuneCountInString(body) > limits.MaxCommentLength {
		httpjson.Error(w, apperr.Validation("comment exceeds %d characters", limits.MaxCommentLength), h.Log)
		return
	}

	comment, err := h.Catalog.AddComment(ctx, h.OwnerID(r), author(user), body)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE .../comments/{commentID}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, _ := auth.CurrentUser(r)
	err := h.Catalog.DeleteComment(ctx, h.OwnerID(r), chi.URLParam(r, "commentID"), user.ID, user.IsAdmin)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTag handles POST .../tags with body {"tag": "..."}.
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req struct {
		Tag string `json:"tag"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if utf8.RuneCountInString(req.Tag) > limits.MaxTagLength {
		httpjson.Error(w, apperr.Validation("tag exceeds %d characters", limits.MaxTagLength), h.Log)
		return
	}

	tag, err := h.Catalog.AddTag(ctx, h.OwnerID(r), req.Tag)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusCreated, map[string]string{"tag": tag})
}

// RemoveTag handles DELETE .../tags/{tag}.
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Catalog.RemoveTag(ctx, h.OwnerID(r), chi.URLParam(r, "tag")); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func author(u *auth.SessionUser) catalogstore.Author {
	return catalogstore.Author{ID: u.ID, Name: u.Name}
}
