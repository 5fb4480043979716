package dashboard

import (
	"net/url"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var boardNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func ev(title string, offset time.Duration, mut ...func(*models.Event)) models.Event {
	e := models.Event{
		ID:       primitive.NewObjectID(),
		Title:    title,
		Date:     models.At(boardNow.Add(offset)),
		Venue:    "Auditorium",
		Category: "Workshop",
	}
	for _, m := range mut {
		m(&e)
	}
	return e
}

func titles(cards []eventCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestCriteriaFromQuery(t *testing.T) {
	q := url.Values{
		"category": {"Workshop"},
		"branch":   {"cse", "it", "cse"},
		"semester": {"3", "x", "5"},
	}
	c := criteriaFromQuery(q)
	assert.Equal(t, "Workshop", c.Category)
	assert.Equal(t, []string{"CSE", "IT"}, c.Branches)
	assert.Equal(t, []int{3, 5}, c.Semesters)
	assert.True(t, c.UpcomingOnly)

	q.Set("upcoming", "0")
	assert.False(t, criteriaFromQuery(q).UpcomingOnly)
}

func TestBuildStudentView_EventsFilteredAndPartitioned(t *testing.T) {
	me := viewer{ID: primitive.NewObjectID(), Branch: "CSE", Semester: 3}
	later := ev("Later", 48*time.Hour)
	soon := ev("Soon", 2*time.Hour)
	past := ev("Past", -24*time.Hour)
	itOnly := ev("IT only", 3*time.Hour, func(e *models.Event) { e.Branches = []string{"IT"} })

	st := boardState{
		Events: []models.Event{later, past, soon, itOnly},
		Registrations: []models.Registration{
			{EventID: soon.ID, UserID: me.ID},
		},
	}

	v := buildStudentView(st, me, criteriaFromQuery(url.Values{"upcoming": {"0"}, "branch": {"CSE"}}), boardNow)
	require.Len(t, v.Events, 3)
	assert.Equal(t, []string{"Soon", "Later", "Past"}, titles(v.Events))
	assert.True(t, v.Events[0].Registered)
	assert.False(t, v.Events[1].Registered)
	assert.True(t, v.Events[2].Expired)
	assert.Equal(t, 1, v.RegisteredCount)
	assert.Contains(t, v.Events[0].CalendarURL, "calendar.google.com")

	upcoming := buildStudentView(st, me, criteriaFromQuery(url.Values{}), boardNow)
	assert.Equal(t, []string{"Soon", "IT only", "Later"}, titles(upcoming.Events))
}

func TestBuildStudentView_VolunteerRoles(t *testing.T) {
	me := viewer{ID: primitive.NewObjectID()}
	fest := ev("Fest", 24*time.Hour, func(e *models.Event) {
		e.EnableVolunteers = true
		e.VolunteerRoles = []string{"Usher", "Stage", "Photo"}
	})
	closed := ev("Closed", -time.Hour, func(e *models.Event) {
		e.EnableVolunteers = true
		e.VolunteerRoles = []string{"Usher"}
	})

	st := boardState{
		Events:        []models.Event{fest, closed},
		Registrations: []models.Registration{{EventID: fest.ID, UserID: me.ID}},
		Applications: []models.VolunteerApplication{
			{EventID: fest.ID, UserID: me.ID, Role: "Stage", Status: "rejected", CreatedAt: boardNow},
		},
	}

	v := buildStudentView(st, me, criteriaFromQuery(url.Values{}), boardNow)
	require.Len(t, v.VolunteerEvents, 1)
	roles := v.VolunteerEvents[0].Roles
	require.Len(t, roles, 3)
	assert.Equal(t, roleCard{Role: "Usher", State: "open", Label: "Apply", CanApply: true}, roles[0])
	assert.Equal(t, "rejected", roles[1].State)
	assert.False(t, roles[1].CanApply)
	assert.True(t, roles[2].CanApply)

	// A pending application takes the single active slot.
	st.Applications = append(st.Applications, models.VolunteerApplication{
		EventID: fest.ID, UserID: me.ID, Role: "Photo", Status: "pending", CreatedAt: boardNow,
	})
	v = buildStudentView(st, me, criteriaFromQuery(url.Values{}), boardNow)
	roles = v.VolunteerEvents[0].Roles
	assert.Equal(t, "applied-elsewhere", roles[0].State)
	assert.Equal(t, "pending", roles[2].State)

	// Without a registration every untouched role asks to register first.
	st.Registrations = nil
	st.Applications = nil
	v = buildStudentView(st, me, criteriaFromQuery(url.Values{}), boardNow)
	assert.Equal(t, "register-first", v.VolunteerEvents[0].Roles[0].State)
}

func TestVisibleNotices(t *testing.T) {
	base := boardNow
	notices := []models.Notice{
		{Title: "global old", CreatedAt: base.Add(-2 * time.Hour)},
		{Title: "cse", TargetBranches: []string{"CSE"}, CreatedAt: base.Add(-time.Hour)},
		{Title: "it sem 5", TargetBranches: []string{"IT"}, TargetSemesters: models.Semesters{5}, CreatedAt: base},
		{Title: "sem 3", TargetSemesters: models.Semesters{3}, CreatedAt: base.Add(-30 * time.Minute)},
	}

	got := visibleNotices(notices, audience.Viewer{Branch: "CSE", Semester: 3})
	var names []string
	for _, n := range got {
		names = append(names, n.Title)
	}
	assert.Equal(t, []string{"sem 3", "cse", "global old"}, names)
}

func TestBuildStudentView_NoticeMarkdownIsSanitized(t *testing.T) {
	st := boardState{Notices: []models.Notice{{
		ID:        primitive.NewObjectID(),
		Title:     "Hi",
		Content:   "**bold** <script>alert(1)</script>",
		CreatedAt: boardNow,
	}}}
	v := buildStudentView(st, viewer{}, criteriaFromQuery(url.Values{}), boardNow)
	require.Len(t, v.Notices, 1)
	assert.Contains(t, string(v.Notices[0].Body), "<strong>bold</strong>")
	assert.NotContains(t, string(v.Notices[0].Body), "<script>")
}

func TestBuildAdminRows_CountsUnreadableStatusAsPending(t *testing.T) {
	fest := ev("Fest", 24*time.Hour)
	apps := []models.VolunteerApplication{
		{EventID: fest.ID, Status: "pending"},
		{EventID: fest.ID, Status: ""},
		{EventID: fest.ID, Status: "approved"},
		{EventID: fest.ID, Status: "rejected"},
	}

	up, ex, pending := buildAdminRows([]models.Event{fest}, nil, apps, audience.Viewer{}, boardNow)
	require.Len(t, up, 1)
	assert.Empty(t, ex)
	assert.Equal(t, 2, up[0].Pending)
	assert.Equal(t, 1, up[0].Approved)
	assert.Equal(t, 2, pending)
}
