// internal/app/features/events/delete.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes an event. Registrations and applications that point
// at it are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/dashboard/admin?error=event_not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.Delete(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		http.Redirect(w, r, "/dashboard/admin?error=event_not_found", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.Log.Error("delete event failed", zap.Error(err), zap.String("event_id", id.Hex()))
		http.Redirect(w, r, "/dashboard/admin?error=delete_failed", http.StatusSeeOther)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.EventDeleted(ctx, r, actorID.Hex(), ev.ID, ev.Title)
	http.Redirect(w, r, "/dashboard/admin?success=event_deleted", http.StatusSeeOther)
}
