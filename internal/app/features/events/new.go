// internal/app/features/events/new.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type newData struct {
	viewdata.BaseVM

	Title            string
	Description      string
	Date             string
	Venue            string
	Category         string
	Branches         []string
	Semesters        []int
	EnableVolunteers bool
	VolunteerRoles   string

	BranchOptions   []string
	SemesterOptions []int
	Categories      []string
	Venues          []string
}

// BranchChecked reports whether b is among the chosen branches.
func (d newData) BranchChecked(b string) bool {
	for _, x := range d.Branches {
		if x == b {
			return true
		}
	}
	return false
}

// SemesterChecked reports whether n is among the chosen semesters.
func (d newData) SemesterChecked(n int) bool {
	for _, x := range d.Semesters {
		if x == n {
			return true
		}
	}
	return false
}

type eventInput struct {
	Title       string `validate:"required,max=200" label:"Title"`
	Description string `validate:"max=5000" label:"Description"`
	Date        string `validate:"required" label:"Date"`
	Venue       string `validate:"required,max=120" label:"Venue"`
	Category    string `validate:"required,max=60" label:"Category"`
}

func (h *Handler) renderNew(w http.ResponseWriter, r *http.Request, d newData, msg string) {
	d.BaseVM = viewdata.NewBaseVM(r, "New Event", "/dashboard/admin")
	d.BaseVM.Error = msg
	d.BranchOptions = models.Branches
	d.SemesterOptions = models.SemesterOptions()
	d.Categories = models.EventCategories
	d.Venues = models.Venues
	templates.Render(w, r, "event_new", d)
}

// ServeNew renders the event form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderNew(w, r, newData{}, "")
}

// HandleCreate validates and publishes a new event.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse event form failed", err, "Invalid form.", "/events/new")
		return
	}

	in := eventInput{
		Title:       normalize.Name(r.PostFormValue("title")),
		Description: r.PostFormValue("description"),
		Date:        r.PostFormValue("date"),
		Venue:       normalize.Name(r.PostFormValue("venue")),
		Category:    normalize.Name(r.PostFormValue("category")),
	}
	d := newData{
		Title:            in.Title,
		Description:      in.Description,
		Date:             in.Date,
		Venue:            in.Venue,
		Category:         in.Category,
		Branches:         normalize.Branches(r.PostForm["branches"]),
		Semesters:        audience.ParseSemesters(r.PostForm["semesters"]),
		EnableVolunteers: r.PostFormValue("enable_volunteers") != "",
		VolunteerRoles:   r.PostFormValue("volunteer_roles"),
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.renderNew(w, r, d, res.First())
		return
	}
	date, err := models.ParseInstant(in.Date)
	if err != nil {
		h.renderNew(w, r, d, "Date is not a valid date and time.")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.Create(ctx, models.Event{
		Title:            in.Title,
		Description:      in.Description,
		Date:             date,
		Venue:            in.Venue,
		Category:         in.Category,
		Branches:         d.Branches,
		Semesters:        d.Semesters,
		EnableVolunteers: d.EnableVolunteers,
		VolunteerRoles:   normalize.List(d.VolunteerRoles),
		CreatedBy:        actorID,
	})
	if errors.Is(err, eventstore.ErrNoRoles) {
		h.renderNew(w, r, d, "Add at least one volunteer role, or turn volunteering off.")
		return
	}
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err), zap.String("title", in.Title))
		h.renderNew(w, r, d, "Could not publish the event. Please try again.")
		return
	}

	h.AuditLog.EventCreated(ctx, r, actorID.Hex(), ev.ID, ev.Title)
	http.Redirect(w, r, "/dashboard/admin?success=event_created", http.StatusSeeOther)
}
