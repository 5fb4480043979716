// internal/app/features/register/handler.go
package register

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves admin-only student registration.
type Handler struct {
	Identities *identitystore.Store
	Users      *userstore.Store
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
}

func NewHandler(ids *identitystore.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Identities: ids,
		Users:      users,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
	}
}
