// internal/app/features/login/handler.go

// Package login implements passwordless sign-in. A roster member requests a
// code by email; the email carries both a 6-digit code and a magic link,
// and either one establishes the session.
package login

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/averywhitlock/photocove/internal/app/store/loginverify"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/httpjson"
	"github.com/averywhitlock/photocove/internal/app/system/mailer"
	"github.com/averywhitlock/photocove/internal/app/system/ratelimit"
	"github.com/averywhitlock/photocove/internal/app/system/timeouts"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Roster is the slice of the user store login needs.
type Roster interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Verifier issues and checks sign-in codes and magic-link tokens.
type Verifier interface {
	Create(ctx context.Context, userID primitive.ObjectID, email string, isResend bool) (*loginverify.Issued, error)
	VerifyCode(ctx context.Context, userID primitive.ObjectID, code string) (*loginverify.Verification, error)
	VerifyToken(ctx context.Context, token string) (*loginverify.Verification, error)
	Expiry() time.Duration
}

// Handler holds the login feature's dependencies.
type Handler struct {
	Users    Roster
	Verify   Verifier
	Sessions *auth.SessionManager
	Mail     mailer.Sender
	BaseURL  string
	SiteName string
	Log      *zap.Logger

	// Limits throttles code requests and verification attempts per IP and
	// per email. nil disables throttling (tests).
	Limits *ratelimit.SignInLimiter
}

// throttled replies 429 when the limiter rejects the attempt.
func (h *Handler) throttled(w http.ResponseWriter, r *http.Request, email string) bool {
	if h.Limits == nil {
		return false
	}
	ok, reason := h.Limits.Check(r, email)
	if ok {
		return false
	}
	h.Log.Warn("sign-in attempt rate limited", zap.String("ip", ratelimit.ClientIP(r)))
	httpjson.Write(w, http.StatusTooManyRequests, map[string]string{"error": reason})
	return true
}

// Request handles POST /login/request with body {"email": "...", "resend": bool}.
// The response is the same whether or not the email is on the roster, so
// the endpoint does not leak membership.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var req struct {
		Email  string `json:"email"`
		Resend bool   `json:"resend"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if req.Email == "" {
		httpjson.Error(w, apperr.Validation("email is required"), h.Log)
		return
	}
	if h.throttled(w, r, req.Email) {
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			h.Log.Info("sign-in requested for unknown email")
			httpjson.Write(w, http.StatusOK, map[string]string{"status": "sent"})
			return
		}
		httpjson.Error(w, err, h.Log)
		return
	}

	issued, err := h.Verify.Create(ctx, user.ID, user.Email, req.Resend)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	email := mailer.BuildSignInEmail(mailer.SignInEmailData{
		SiteName:  h.SiteName,
		Code:      issued.Code,
		MagicLink: fmt.Sprintf("%s/login/magic?token=%s", h.BaseURL, issued.Token),
		ExpiresIn: formatExpiry(h.Verify.Expiry()),
	})
	email.To = user.Email
	if err := h.Mail.Send(ctx, email); err != nil {
		httpjson.Error(w, apperr.Upstream("could not send sign-in email", err), h.Log)
		return
	}

	h.Log.Info("sign-in code sent", zap.String("user_id", user.ID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "sent"})
}

// VerifyCode handles POST /login/verify with body {"email": "...", "code": "..."}.
// Success establishes the session cookie.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if h.throttled(w, r, req.Email) {
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same shape as a wrong code, for the same reason Request is quiet.
		httpjson.Error(w, apperr.Validation("incorrect sign-in code"), h.Log)
		return
	}
	if _, err := h.Verify.VerifyCode(ctx, user.ID, req.Code); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	if h.Limits != nil {
		h.Limits.ResetEmail(user.Email)
	}

	h.establishSession(w, r, user)
}

// Magic handles GET /login/magic?token=... from the emailed link.
func (h *Handler) Magic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token := query.Get(r, "token")
	if token == "" {
		httpjson.Error(w, apperr.Validation("missing token"), h.Log)
		return
	}

	v, err := h.Verify.VerifyToken(ctx, token)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	user, err := h.Users.GetByID(ctx, v.UserID)
	if err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}

	h.establishSession(w, r, user)
}

// Logout handles POST /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	su := auth.SessionUser{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
	if err := h.Sessions.SignIn(w, r, su); err != nil {
		httpjson.Error(w, err, h.Log)
		return
	}
	h.Log.Info("user signed in", zap.String("user_id", su.ID))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":      su.ID,
			"name":    su.Name,
			"email":   su.Email,
			"isAdmin": su.IsAdmin,
		},
	})
}

func formatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
