// internal/app/features/events/register.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ledger"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const studentHome = "/dashboard/student"

func backTo(w http.ResponseWriter, r *http.Request, kind, code string) {
	http.Redirect(w, r, studentHome+"?"+kind+"="+code, http.StatusSeeOther)
}

// studentEvent resolves the URL event and the signed-in student. It writes
// the redirect itself and returns ok=false when either is missing.
func (h *Handler) studentEvent(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Event, *auth.SessionUser, primitive.ObjectID, bool) {
	u, signedIn := auth.CurrentUser(r)
	if !signedIn {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return models.Event{}, nil, primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return models.Event{}, nil, primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		backTo(w, r, "error", "event_not_found")
		return models.Event{}, nil, primitive.NilObjectID, false
	}
	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		backTo(w, r, "error", "event_not_found")
		return models.Event{}, nil, primitive.NilObjectID, false
	}
	if err != nil {
		h.Log.Error("load event failed", zap.Error(err), zap.String("event_id", id.Hex()))
		backTo(w, r, "error", "event_not_found")
		return models.Event{}, nil, primitive.NilObjectID, false
	}
	return ev, u, uid, true
}

// HandleRegister signs the student up for an event. Registering twice is
// not an error; the student is told they are already registered.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, u, uid, ok := h.studentEvent(ctx, w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	if ev.Expired(now) {
		backTo(w, r, "error", "event_expired")
		return
	}

	regs, err := h.Registrations.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("list registrations failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		backTo(w, r, "error", "register_failed")
		return
	}

	created, err := ledger.New(regs).Register(ctx, h.Registrations, models.Registration{
		EventID:      ev.ID,
		UserID:       uid,
		UserName:     u.Name,
		Email:        u.Email,
		EventTitle:   ev.Title,
		RegisteredAt: now,
	})
	if err != nil {
		h.Log.Error("register for event failed", zap.Error(err),
			zap.String("event_id", ev.ID.Hex()), zap.String("user_id", uid.Hex()))
		backTo(w, r, "error", "register_failed")
		return
	}
	if !created {
		backTo(w, r, "success", "already")
		return
	}

	h.AuditLog.RegisteredForEvent(ctx, r, uid, ev.ID)
	backTo(w, r, "success", "registered")
}
