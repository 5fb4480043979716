// internal/app/features/volunteers/list.go
package volunteers

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/eventorder"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventRow struct {
	models.Event
	Expired  bool
	Pending  int
	Approved int
	Rejected int
}

type listData struct {
	viewdata.BaseVM
	Rows         []eventRow
	TotalPending int
}

// eventRows keeps volunteer-enabled events, upcoming first, and counts
// their applications by status.
func eventRows(events []models.Event, apps []models.VolunteerApplication, now time.Time) ([]eventRow, int) {
	enabled := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.EnableVolunteers {
			enabled = append(enabled, e)
		}
	}

	counts := make(map[primitive.ObjectID]map[volunteering.Status]int)
	for _, a := range apps {
		st := volunteering.StoredStatus(a.Status)
		if counts[a.EventID] == nil {
			counts[a.EventID] = map[volunteering.Status]int{}
		}
		counts[a.EventID][st]++
	}

	rows := make([]eventRow, 0, len(enabled))
	total := 0
	for _, e := range eventorder.Partition(enabled, now) {
		c := counts[e.ID]
		rows = append(rows, eventRow{
			Event:    e,
			Expired:  e.Expired(now),
			Pending:  c[volunteering.StatusPending],
			Approved: c[volunteering.StatusApproved],
			Rejected: c[volunteering.StatusRejected],
		})
		total += c[volunteering.StatusPending]
	}
	return rows, total
}

// ServeList shows every event that accepts volunteers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, "Could not load events.", "/dashboard/admin")
		return
	}
	apps, err := h.Applications.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list applications failed", err, "Could not load applications.", "/dashboard/admin")
		return
	}

	rows, total := eventRows(events, apps, time.Now().UTC())
	templates.Render(w, r, "volunteer_events", listData{
		BaseVM:       viewdata.NewBaseVM(r, "Volunteers", "/dashboard/admin"),
		Rows:         rows,
		TotalPending: total,
	})
}
