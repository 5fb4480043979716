// internal/app/features/events/registrants.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const unknownBranch = "Unknown Branch"

type registrantRow struct {
	Name         string
	Email        string
	Branch       string
	RegisteredAt string
}

type registrantsData struct {
	viewdata.BaseVM
	Event models.Event
	Rows  []registrantRow
}

// registrantRows joins registrations with the registrants' profiles.
func registrantRows(regs []models.Registration, users []models.User) []registrantRow {
	branches := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		branches[u.ID] = u.Branch
	}
	rows := make([]registrantRow, 0, len(regs))
	for _, reg := range regs {
		b := branches[reg.UserID]
		if b == "" {
			b = unknownBranch
		}
		rows = append(rows, registrantRow{
			Name:         reg.UserName,
			Email:        reg.Email,
			Branch:       b,
			RegisteredAt: reg.RegisteredAt.UTC().Format("Jan 2 2006 15:04"),
		})
	}
	return rows
}

// ServeRegistrants lists who registered for an event.
func (h *Handler) ServeRegistrants(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/dashboard/admin?error=event_not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		http.Redirect(w, r, "/dashboard/admin?error=event_not_found", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Could not load the event.", "/dashboard/admin")
		return
	}

	regs, err := h.Registrations.ListByEvent(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list registrations failed", err, "Could not load registrations.", "/dashboard/admin")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.UserID)
	}
	users, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load registrant profiles failed", err, "Could not load registrations.", "/dashboard/admin")
		return
	}

	templates.Render(w, r, "event_registrants", registrantsData{
		BaseVM: viewdata.NewBaseVM(r, "Registrations: "+ev.Title, "/dashboard/admin"),
		Event:  ev,
		Rows:   registrantRows(regs, users),
	})
}
