// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/store/audit"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler serves the admin audit trail.
type Handler struct {
	Audit  *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(store *audit.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Audit:  store,
		Users:  users,
		Log:    logger,
		ErrLog: errLog,
	}
}
