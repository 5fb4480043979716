// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes mounts /forbidden and /unauthorized.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/forbidden", h.Forbidden)
	r.Get("/unauthorized", h.Unauthorized)
	return r
}

// Forbidden renders the page RequireRole redirects to.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "")
}

// Unauthorized renders a "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "/login")
}
