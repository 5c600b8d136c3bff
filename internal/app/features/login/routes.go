// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes returns the login subrouter, mounted under /login. These routes
// are reachable without a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/request", h.Request)
	r.Post("/verify", h.VerifyCode)
	r.Get("/magic", h.Magic)
	return r
}
