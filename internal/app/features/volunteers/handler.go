// internal/app/features/volunteers/handler.go
package volunteers

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the admin volunteer review screens.
type Handler struct {
	Events       *eventstore.Store
	Applications *volunteerappstore.Store
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	AuditLog     *auditlog.Logger
}

func NewHandler(events *eventstore.Store, apps *volunteerappstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:       events,
		Applications: apps,
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     audit,
	}
}
