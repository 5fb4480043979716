// internal/app/features/dashboard/student.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/eventorder"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type studentData struct {
	viewdata.BaseVM
	studentView

	Criteria    eventorder.Criteria
	StreamURL   string
	Branches    []string
	Semesters   []int
	UserBranch  string
	UserSem     int
	FilterQuery string
}

var studentSuccessText = map[string]string{
	"registered":      "You are registered.",
	"already":         "You were already registered for this event.",
	"volunteer_apply": "Application sent. An admin will review it.",
}

var studentErrorText = map[string]string{
	"event_not_found": "That event no longer exists.",
	"register_failed": "Could not register. Please try again.",
	"event_expired":   "This event has already taken place.",
	"apply_failed":    "Could not send the application. Please try again.",
	"volunteer_off":   "This event does not accept volunteers.",
	"unknown_role":    "That volunteer role is not offered.",
	"not_registered":  "Register for the event before volunteering.",
	"active_app":      "You already have an active application for this event.",
	"already_applied": "You already applied for this role.",
}

func viewerFrom(u *auth.SessionUser) (viewer, bool) {
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return viewer{}, false
	}
	return viewer{ID: id, Branch: u.Branch, Semester: u.Semester}, true
}

// loadBoard reads every collection the student board is derived from.
func (h *Handler) loadBoard(ctx context.Context, userID primitive.ObjectID) (boardState, error) {
	var st boardState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Events, err = h.Events.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Notices, err = h.Notices.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Registrations, err = h.Registrations.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		st.Applications, err = h.Applications.ListByUser(gctx, userID)
		return err
	})
	return st, g.Wait()
}

// ServeStudent renders the student dashboard. The page then subscribes to
// /dashboard/student/stream with the same filter for live updates.
func (h *Handler) ServeStudent(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	v, ok := viewerFrom(u)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	st, err := h.loadBoard(ctx, v.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load student board failed", err, "Could not load your dashboard.", "/")
		return
	}

	c := criteriaFromRequest(r)
	vm := viewdata.NewBaseVM(r, "Student Dashboard", "/")
	vm.Success = studentSuccessText[query.Get(r, "success")]
	vm.Error = studentErrorText[query.Get(r, "error")]

	streamURL := "/dashboard/student/stream"
	if q := r.URL.RawQuery; q != "" {
		streamURL += "?" + q
	}

	templates.Render(w, r, "student_dashboard", studentData{
		BaseVM:      vm,
		studentView: buildStudentView(st, v, c, time.Now().UTC()),
		Criteria:    c,
		StreamURL:   streamURL,
		Branches:    models.Branches,
		Semesters:   models.SemesterOptions(),
		UserBranch:  v.Branch,
		UserSem:     v.Semester,
		FilterQuery: r.URL.RawQuery,
	})
}
