// internal/app/features/events/volunteer.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/ledger"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

var applyErrorCodes = []struct {
	err  error
	code string
}{
	{volunteering.ErrVolunteersDisabled, "volunteer_off"},
	{volunteering.ErrEventExpired, "event_expired"},
	{volunteering.ErrUnknownRole, "unknown_role"},
	{volunteering.ErrNotRegistered, "not_registered"},
	{volunteering.ErrAlreadyApplied, "already_applied"},
	{volunteering.ErrActiveApplication, "active_app"},
}

func applyErrorCode(err error) string {
	for _, c := range applyErrorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "apply_failed"
}

// HandleVolunteer files a pending application for one volunteer role.
func (h *Handler) HandleVolunteer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, u, uid, ok := h.studentEvent(ctx, w, r)
	if !ok {
		return
	}
	role := strings.TrimSpace(r.PostFormValue("role"))

	regs, err := h.Registrations.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("list registrations failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		backTo(w, r, "error", "apply_failed")
		return
	}
	apps, err := h.Applications.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("list applications failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		backTo(w, r, "error", "apply_failed")
		return
	}

	now := time.Now().UTC()
	registered := ledger.New(regs).IsRegistered(ev.ID, uid)
	if err := volunteering.CheckApply(ev, role, registered, apps, now); err != nil {
		backTo(w, r, "error", applyErrorCode(err))
		return
	}

	_, err = h.Applications.Create(ctx, models.VolunteerApplication{
		EventID:   ev.ID,
		UserID:    uid,
		UserName:  u.Name,
		Email:     u.Email,
		Role:      role,
		Status:    string(volunteering.StatusPending),
		CreatedAt: now,
	})
	if err != nil {
		h.Log.Error("create volunteer application failed", zap.Error(err),
			zap.String("event_id", ev.ID.Hex()), zap.String("role", role))
		backTo(w, r, "error", "apply_failed")
		return
	}

	h.AuditLog.VolunteerApplied(ctx, r, uid, ev.ID, role)
	backTo(w, r, "success", "volunteer_apply")
}
