// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/app/system/eventorder"
	"github.com/dalemusser/campushub/internal/app/system/ledger"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type adminEventRow struct {
	models.Event
	Expired       bool
	Registrations int
	Pending       int
	Approved      int
	CSRFToken     string
}

type adminData struct {
	viewdata.BaseVM

	Upcoming []adminEventRow
	Expired  []adminEventRow

	FilterBranch   string
	FilterSemester string
	Branches       []string
	Semesters      []int

	TotalEvents  int
	TotalPending int
}

var adminSuccessText = map[string]string{
	"event_created": "Event published.",
	"event_deleted": "Event deleted.",
}

var adminErrorText = map[string]string{
	"event_not_found": "That event no longer exists.",
	"delete_failed":   "Could not delete the event. Please try again.",
}

// adminFilter reads the branch/semester filter. Blank values do not filter.
func adminFilter(r *http.Request) audience.Viewer {
	v := audience.Viewer{Branch: normalize.Branch(query.Get(r, "branch"))}
	if n, ok := audience.ParseSemester(query.Get(r, "semester")); ok {
		v.Semester = n
	}
	return v
}

// buildAdminRows filters events by f and attaches registration and
// application counts, upcoming first.
func buildAdminRows(events []models.Event, regs []models.Registration, apps []models.VolunteerApplication, f audience.Viewer, now time.Time) (upcoming, expired []adminEventRow, pending int) {
	visible := make([]models.Event, 0, len(events))
	for _, e := range events {
		if audience.Matches(audience.Target{Branches: e.Branches, Semesters: e.Semesters}, f) {
			visible = append(visible, e)
		}
	}

	counts := ledger.New(regs)
	type tally struct{ pending, approved int }
	byEvent := make(map[primitive.ObjectID]tally)
	for _, a := range apps {
		t := byEvent[a.EventID]
		switch volunteering.StoredStatus(a.Status) {
		case volunteering.StatusPending:
			t.pending++
		case volunteering.StatusApproved:
			t.approved++
		}
		byEvent[a.EventID] = t
	}

	row := func(e models.Event) adminEventRow {
		t := byEvent[e.ID]
		return adminEventRow{
			Event:         e,
			Expired:       e.Expired(now),
			Registrations: counts.Count(e.ID),
			Pending:       t.pending,
			Approved:      t.approved,
		}
	}

	up, ex := eventorder.Split(visible, now)
	for _, e := range up {
		r := row(e)
		pending += r.Pending
		upcoming = append(upcoming, r)
	}
	for _, e := range ex {
		r := row(e)
		pending += r.Pending
		expired = append(expired, r)
	}
	return upcoming, expired, pending
}

// ServeAdmin renders the admin dashboard: every event, partitioned into
// upcoming and past, with registration and volunteer counts.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, "Could not load events.", "/")
		return
	}
	regs, err := h.Registrations.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list registrations failed", err, "Could not load registrations.", "/")
		return
	}
	apps, err := h.Applications.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list volunteer applications failed", err, "Could not load volunteer applications.", "/")
		return
	}

	f := adminFilter(r)
	upcoming, expired, pending := buildAdminRows(events, regs, apps, f, time.Now().UTC())

	vm := viewdata.NewBaseVM(r, "Admin Dashboard", "/")
	vm.Success = adminSuccessText[query.Get(r, "success")]
	vm.Error = adminErrorText[query.Get(r, "error")]

	data := adminData{
		BaseVM:       vm,
		Upcoming:     upcoming,
		Expired:      expired,
		FilterBranch: f.Branch,
		Branches:     models.Branches,
		Semesters:    models.SemesterOptions(),
		TotalEvents:  len(upcoming) + len(expired),
		TotalPending: pending,
	}
	if f.Semester > 0 {
		data.FilterSemester = query.Get(r, "semester")
	}
	for i := range data.Upcoming {
		data.Upcoming[i].CSRFToken = vm.CSRFToken
	}
	for i := range data.Expired {
		data.Expired[i].CSRFToken = vm.CSRFToken
	}

	h.Log.Debug("admin dashboard served", zap.String("user", vm.UserName), zap.Int("events", data.TotalEvents))
	templates.Render(w, r, "admin_dashboard", data)
}
