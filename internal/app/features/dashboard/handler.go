// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	noticestore "github.com/dalemusser/campushub/internal/app/store/notices"
	registrationstore "github.com/dalemusser/campushub/internal/app/store/registrations"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"go.uber.org/zap"
)

type Handler struct {
	Events        *eventstore.Store
	Notices       *noticestore.Store
	Registrations *registrationstore.Store
	Applications  *volunteerappstore.Store
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
}

func NewHandler(
	events *eventstore.Store,
	notices *noticestore.Store,
	regs *registrationstore.Store,
	apps *volunteerappstore.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Events:        events,
		Notices:       notices,
		Registrations: regs,
		Applications:  apps,
		Log:           logger,
		ErrLog:        errLog,
	}
}

// ServeDashboard sends the user to the dashboard for their role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	home := authz.RoleHome(role)
	if home == "" {
		h.Log.Warn("dashboard requested with unknown role", zap.String("role", role))
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, home, http.StatusSeeOther)
}
