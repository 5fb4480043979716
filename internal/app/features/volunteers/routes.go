// internal/app/features/volunteers/routes.go
package volunteers

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)
	r.Get("/{eventID}", h.ServeEvent)
	r.Post("/{eventID}/applications/{appID}/{decision}", h.HandleReview)

	return r
}
