// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	if rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context); ok {
		rctx.URLParams.Add(key, value)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AdminUser returns a session user with the admin flag set.
func AdminUser() auth.SessionUser {
	return auth.SessionUser{
		ID:      uuid.NewString(),
		Name:    "Test Admin",
		Email:   "admin@test.com",
		IsAdmin: true,
	}
}

// MemberUser returns a regular household member session user.
func MemberUser() auth.SessionUser {
	return auth.SessionUser{
		ID:    uuid.NewString(),
		Name:  "Test Member",
		Email: "member@test.com",
	}
}

// NewAuthenticatedRequest creates an HTTP request with a user in context,
// bypassing the session middleware.
func NewAuthenticatedRequest(method, target string, u auth.SessionUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return auth.WithUser(req, &u)
}
