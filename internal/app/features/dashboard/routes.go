// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboards under the /dashboard mount point. The bare
// path dispatches by role; each role view checks the role itself.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Get("/admin", h.ServeAdmin)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleStudent))
		pr.Get("/student", h.ServeStudent)
		pr.Get("/student/stream", h.ServeStudentStream)
	})

	return r
}
