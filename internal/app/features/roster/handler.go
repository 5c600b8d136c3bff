// internal/app/features/roster/handler.go

// Package roster is the admin surface for household membership, plus the
// /me endpoint every signed-in client uses to learn who it is.
package roster

import (
	"context"
	"net/http"

	userstore "github.com/averywhitlock/photocove/internal/app/store/users"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Users is the slice of the user store this feature needs.
type Users interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Apply(ctx context.Context, id primitive.ObjectID, upd userstore.Update) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Handler holds the roster feature's dependencies.
type Handler struct {
	Users Users
	Log   *zap.Logger
}

func NewHandler(users Users, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// userView is the JSON shape for roster users.
type userView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func toView(u models.User) userView {
	return userView{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Me handles GET /me for any signed-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	httpjson.Write(w, http.StatusOK, userView{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	})
}

// List handles GET /admin/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toView(u))
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"users": views})
}

// Create handles POST /admin/users with body {"name", "email", "isAdmin"}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	u, err := h.Users.Create(ctx, models.User{Name: req.Name, Email: req.Email, IsAdmin: req.IsAdmin})
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	h.Log.Info("roster user created", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, toView(u))
}

// Update handles PATCH /admin/users/{userID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := userIDParam(r)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	var req struct {
		Name    string `json:"name"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	if err := h.Users.Apply(ctx, id, userstore.Update{Name: req.Name, IsAdmin: req.IsAdmin}); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, toView(*updated))
}

// Delete handles DELETE /admin/users/{userID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := userIDParam(r)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	h.Log.Info("roster user deleted", zap.String("user_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

func userIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("malformed user id")
	}
	return id, nil
}
