// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/delete", h.HandleDelete)
		pr.Get("/{id}/registrations", h.ServeRegistrants)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleStudent))
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Post("/{id}/volunteer", h.HandleVolunteer)
	})

	return r
}
