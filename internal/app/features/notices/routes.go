// internal/app/features/notices/routes.go
package notices

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes is mounted at /admin/notices.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.List)
	r.Get("/new", h.ShowNew)
	r.Post("/", h.Create)
	r.Post("/preview", h.Preview)
	r.Get("/{id}/edit", h.ShowEdit)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
	return r
}

// StudentRoutes is mounted at /notices.
func StudentRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleStudent))

	r.Get("/", h.ServeFeed)
	return r
}
