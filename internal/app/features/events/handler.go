// internal/app/features/events/handler.go
package events

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	registrationstore "github.com/dalemusser/campushub/internal/app/store/registrations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves event management for admins and event actions
// (register, volunteer) for students.
type Handler struct {
	Events        *eventstore.Store
	Registrations *registrationstore.Store
	Applications  *volunteerappstore.Store
	Users         *userstore.Store
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
}

func NewHandler(
	events *eventstore.Store,
	regs *registrationstore.Store,
	apps *volunteerappstore.Store,
	users *userstore.Store,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Events:        events,
		Registrations: regs,
		Applications:  apps,
		Users:         users,
		Log:           logger,
		ErrLog:        errLog,
		AuditLog:      audit,
	}
}
