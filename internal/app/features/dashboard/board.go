// internal/app/features/dashboard/board.go
package dashboard

import (
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/app/system/calendarlink"
	"github.com/dalemusser/campushub/internal/app/system/eventorder"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/ledger"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// noticeLimit caps the notices shown on the student dashboard.
const noticeLimit = 5

// boardState is what the student dashboard is derived from. The page load
// fills it from the stores; the stream replaces one field per feed update.
type boardState struct {
	Events        []models.Event
	Notices       []models.Notice
	Registrations []models.Registration
	Applications  []models.VolunteerApplication
}

// viewer is the signed-in student the board is built for.
type viewer struct {
	ID       primitive.ObjectID
	Branch   string
	Semester int
}

type roleCard struct {
	Role     string `json:"role"`
	State    string `json:"state"`
	Label    string `json:"label"`
	CanApply bool   `json:"can_apply"`
}

type eventCard struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	DateLabel   string     `json:"date_label"`
	Venue       string     `json:"venue"`
	Category    string     `json:"category"`
	Branches    []string   `json:"branches"`
	Semesters   []int      `json:"semesters"`
	Expired     bool       `json:"expired"`
	Registered  bool       `json:"registered"`
	CalendarURL string     `json:"calendar_url"`
	Roles       []roleCard `json:"roles,omitempty"`
}

type noticeCard struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Body       template.HTML `json:"body"`
	AuthorName string        `json:"author_name"`
	CreatedAt  time.Time     `json:"created_at"`
	Edited     bool          `json:"edited"`
}

// studentView is the derived dashboard. It is rendered into the page on
// load and sent as JSON on every stream update.
type studentView struct {
	Events          []eventCard  `json:"events"`
	VolunteerEvents []eventCard  `json:"volunteer_events"`
	Notices         []noticeCard `json:"notices"`
	Categories      []string     `json:"categories"`
	Venues          []string     `json:"venues"`
	RegisteredCount int          `json:"registered_count"`
}

// criteriaFromQuery reads the student event filter. Upcoming-only is on
// unless upcoming=0.
func criteriaFromQuery(q url.Values) eventorder.Criteria {
	c := eventorder.Criteria{
		Category:     q.Get("category"),
		Venue:        q.Get("venue"),
		Branches:     normalize.Branches(q["branch"]),
		Semesters:    audience.ParseSemesters(q["semester"]),
		UpcomingOnly: q.Get("upcoming") != "0",
	}
	return c
}

func criteriaFromRequest(r *http.Request) eventorder.Criteria {
	return criteriaFromQuery(r.URL.Query())
}

func renderNotice(n models.Notice) noticeCard {
	body, err := htmlsanitize.RenderMarkdown(n.Content)
	if err != nil {
		body = template.HTML(htmlsanitize.PlainTextToHTML(n.Content))
	}
	return noticeCard{
		ID:         n.ID.Hex(),
		Title:      n.Title,
		Body:       body,
		AuthorName: n.AuthorName,
		CreatedAt:  n.CreatedAt,
		Edited:     n.UpdatedAt != nil,
	}
}

func card(e models.Event, registered bool, now time.Time) eventCard {
	return eventCard{
		ID:          e.ID.Hex(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Time,
		DateLabel:   e.DateLabel(),
		Venue:       e.Venue,
		Category:    e.Category,
		Branches:    e.Branches,
		Semesters:   e.Semesters,
		Expired:     e.Expired(now),
		Registered:  registered,
		CalendarURL: calendarlink.Google(e),
	}
}

// buildStudentView derives the dashboard from st. It only reads st, so a
// partially filled state (some feeds not yet delivered) is fine.
func buildStudentView(st boardState, v viewer, c eventorder.Criteria, now time.Time) studentView {
	regs := ledger.New(st.Registrations)
	book := volunteering.NewBook(st.Applications)

	out := studentView{
		Events:          []eventCard{},
		VolunteerEvents: []eventCard{},
		Notices:         []noticeCard{},
	}
	out.Categories, out.Venues = eventorder.Facets(st.Events)

	for _, e := range eventorder.Select(st.Events, c, now) {
		reg := regs.IsRegistered(e.ID, v.ID)
		if reg {
			out.RegisteredCount++
		}
		out.Events = append(out.Events, card(e, reg, now))
	}

	for _, e := range eventorder.VolunteerOpen(st.Events, now) {
		reg := regs.IsRegistered(e.ID, v.ID)
		ec := card(e, reg, now)
		for _, ra := range book.Roles(e, reg) {
			ec.Roles = append(ec.Roles, roleCard{
				Role:     ra.Role,
				State:    string(ra.Availability),
				Label:    ra.Availability.Label(),
				CanApply: ra.Availability.CanApply(),
			})
		}
		out.VolunteerEvents = append(out.VolunteerEvents, ec)
	}

	notices := visibleNotices(st.Notices, audience.Viewer{Branch: v.Branch, Semester: v.Semester})
	if len(notices) > noticeLimit {
		notices = notices[:noticeLimit]
	}
	for _, n := range notices {
		out.Notices = append(out.Notices, renderNotice(n))
	}
	return out
}

// visibleNotices returns the notices v sees, newest first.
func visibleNotices(all []models.Notice, v audience.Viewer) []models.Notice {
	out := make([]models.Notice, 0, len(all))
	for _, n := range all {
		if audience.Matches(audience.Target{Branches: n.TargetBranches, Semesters: n.TargetSemesters}, v) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
