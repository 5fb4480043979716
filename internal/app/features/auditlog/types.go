// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
)

// listItem is one audit row with actor and subject resolved to names.
type listItem struct {
	When       string
	Category   string
	EventType  string
	Label      string
	ActorName  string
	TargetName string
	IP         string
	Success    bool
	Failure    string
	Details    []detail
}

type detail struct {
	Key   string
	Value string
}

type option struct {
	Value string
	Label string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem

	Category  string
	EventType string
	StartDate string
	EndDate   string

	Categories []option
	EventTypes []option

	paging.Range
	PrevURL string
	NextURL string
}

var categories = []option{
	{audit.CategoryAuth, "Sign-in"},
	{audit.CategoryAdmin, "Administration"},
	{audit.CategoryActivity, "Student activity"},
}

var eventLabels = map[string]string{
	audit.EventLoginSuccess:             "Signed in",
	audit.EventLoginFailedUnknownEmail:  "Sign-in failed: unknown email",
	audit.EventLoginFailedWrongPassword: "Sign-in failed: wrong password",
	audit.EventLoginFailedNoProfile:     "Sign-in failed: no profile",
	audit.EventLoginThrottled:           "Sign-in throttled",
	audit.EventProfileRepaired:          "Profile repaired",
	audit.EventLogout:                   "Signed out",
	audit.EventStudentRegistered:        "Student registered",
	audit.EventEventCreated:             "Event created",
	audit.EventEventDeleted:             "Event deleted",
	audit.EventNoticeCreated:            "Notice posted",
	audit.EventNoticeUpdated:            "Notice edited",
	audit.EventNoticeDeleted:            "Notice deleted",
	audit.EventVolunteerReviewed:        "Volunteer application reviewed",
	audit.EventAdminBootstrapped:        "Admin bootstrapped",
	audit.EventRegisteredForEvent:       "Registered for event",
	audit.EventVolunteerApplied:         "Applied to volunteer",
}

var eventsByCategory = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailedUnknownEmail,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedNoProfile,
		audit.EventLoginThrottled,
		audit.EventProfileRepaired,
		audit.EventLogout,
	},
	audit.CategoryAdmin: {
		audit.EventStudentRegistered,
		audit.EventEventCreated,
		audit.EventEventDeleted,
		audit.EventNoticeCreated,
		audit.EventNoticeUpdated,
		audit.EventNoticeDeleted,
		audit.EventVolunteerReviewed,
		audit.EventAdminBootstrapped,
	},
	audit.CategoryActivity: {
		audit.EventRegisteredForEvent,
		audit.EventVolunteerApplied,
	},
}

// eventTypeOptions lists the event types of category, or every type when
// category is empty or unknown.
func eventTypeOptions(category string) []option {
	cats := []string{category}
	if _, ok := eventsByCategory[category]; !ok {
		cats = []string{audit.CategoryAuth, audit.CategoryAdmin, audit.CategoryActivity}
	}
	var out []option
	for _, c := range cats {
		for _, et := range eventsByCategory[c] {
			out = append(out, option{Value: et, Label: labelFor(et)})
		}
	}
	return out
}

func labelFor(eventType string) string {
	if l, ok := eventLabels[eventType]; ok {
		return l
	}
	return eventType
}
