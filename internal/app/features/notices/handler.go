// internal/app/features/notices/handler.go
package notices

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	noticestore "github.com/dalemusser/campushub/internal/app/store/notices"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the admin notice screens and the student notice feed.
type Handler struct {
	Store    *noticestore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

// NewHandler constructs a notices Handler.
func NewHandler(store *noticestore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    store,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}
