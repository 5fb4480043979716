// internal/app/features/volunteers/review.go
package volunteers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type appRow struct {
	models.VolunteerApplication
	EventHex  string
	Applied   string
	Reviewed  string
	CSRFToken string
}

type eventData struct {
	viewdata.BaseVM
	Event    models.Event
	Pending  []appRow
	Approved []appRow
	Rejected []appRow
}

var successText = map[string]string{
	"approved": "Application approved.",
	"rejected": "Application rejected.",
}

var errorText = map[string]string{
	"not_found":        "That application no longer exists.",
	"already_reviewed": "That application already has a different decision.",
	"bad_decision":     "Unknown decision.",
	"review_failed":    "Could not save the decision. Please try again.",
}

// groupApplications splits apps by status, oldest application first.
// Unreadable statuses are treated as pending.
func groupApplications(apps []models.VolunteerApplication, csrfToken string) (pending, approved, rejected []appRow) {
	sorted := append([]models.VolunteerApplication(nil), apps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	for _, a := range sorted {
		row := appRow{
			VolunteerApplication: a,
			EventHex:             a.EventID.Hex(),
			Applied:              a.CreatedAt.UTC().Format("Jan 2 15:04"),
			CSRFToken:            csrfToken,
		}
		if a.ReviewedAt != nil {
			row.Reviewed = a.ReviewedAt.UTC().Format("Jan 2 15:04")
		}
		switch volunteering.StoredStatus(a.Status) {
		case volunteering.StatusApproved:
			approved = append(approved, row)
		case volunteering.StatusRejected:
			rejected = append(rejected, row)
		default:
			pending = append(pending, row)
		}
	}
	return pending, approved, rejected
}

// ServeEvent lists the applications for one event.
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Redirect(w, r, "/volunteers", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		http.Redirect(w, r, "/volunteers", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Could not load the event.", "/volunteers")
		return
	}
	apps, err := h.Applications.ListByEvent(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list applications failed", err, "Could not load applications.", "/volunteers")
		return
	}

	vm := viewdata.NewBaseVM(r, "Volunteers: "+ev.Title, "/volunteers")
	vm.Success = successText[query.Get(r, "success")]
	vm.Error = errorText[query.Get(r, "error")]

	d := eventData{BaseVM: vm, Event: ev}
	d.Pending, d.Approved, d.Rejected = groupApplications(apps, vm.CSRFToken)
	templates.Render(w, r, "volunteer_event", d)
}

// HandleReview records an approve or reject decision.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	eventHex := chi.URLParam(r, "eventID")
	back := "/volunteers/" + eventHex
	redirect := func(kind, code string) {
		http.Redirect(w, r, back+"?"+kind+"="+code, http.StatusSeeOther)
	}

	var decision volunteering.Status
	switch chi.URLParam(r, "decision") {
	case "approve":
		decision = volunteering.StatusApproved
	case "reject":
		decision = volunteering.StatusRejected
	default:
		redirect("error", "bad_decision")
		return
	}

	appID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "appID"))
	if err != nil {
		redirect("error", "not_found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.Review(ctx, appID, decision)
	switch {
	case errors.Is(err, volunteerappstore.ErrNotFound):
		redirect("error", "not_found")
		return
	case errors.Is(err, volunteering.ErrTerminal):
		redirect("error", "already_reviewed")
		return
	case err != nil:
		h.Log.Error("review application failed", zap.Error(err), zap.String("application_id", appID.Hex()))
		redirect("error", "review_failed")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.VolunteerReviewed(ctx, r, actorID.Hex(), app.UserID, app.ID, app.Status)
	redirect("success", string(decision))
}
