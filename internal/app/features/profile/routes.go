// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	return r
}

// PreferenceRoutes is mounted at /preferences. It is open to visitors so
// the theme applies on the sign-in page too.
func PreferenceRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/theme", h.HandleTheme)
	return r
}
