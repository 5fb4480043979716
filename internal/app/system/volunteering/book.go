package volunteering

import (
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Availability is what a student sees next to one volunteer role.
type Availability string

const (
	AvailApproved         Availability = "approved"
	AvailRejected         Availability = "rejected"
	AvailPending          Availability = "pending"
	AvailRegisterFirst    Availability = "register-first"
	AvailAppliedElsewhere Availability = "applied-elsewhere"
	AvailOpen             Availability = "open"
)

// Label is the button text for a.
func (a Availability) Label() string {
	switch a {
	case AvailApproved:
		return "Approved"
	case AvailRejected:
		return "Rejected"
	case AvailPending:
		return "Pending"
	case AvailRegisterFirst:
		return "Register First"
	case AvailAppliedElsewhere:
		return "Applied other"
	}
	return "Apply"
}

// CanApply reports whether the apply action is enabled.
func (a Availability) CanApply() bool { return a == AvailOpen }

var (
	ErrVolunteersDisabled = errors.New("event does not accept volunteers")
	ErrUnknownRole        = errors.New("role is not offered for this event")
	ErrNotRegistered      = errors.New("register for the event before volunteering")
	ErrActiveApplication  = errors.New("already holding an active application for this event")
	ErrAlreadyApplied     = errors.New("already applied for this role")
	ErrEventExpired       = errors.New("event has already taken place")
)

type entry struct {
	status  Status
	created time.Time
}

// Book is one applicant's applications keyed by event and role. When the
// snapshot has several rows for the same pair, the newest one counts.
type Book struct {
	byEvent map[primitive.ObjectID]map[string]entry
}

// NewBook indexes apps. Rows with an unreadable status count as pending.
func NewBook(apps []models.VolunteerApplication) *Book {
	b := &Book{byEvent: make(map[primitive.ObjectID]map[string]entry)}
	for _, a := range apps {
		st := StoredStatus(a.Status)
		roles := b.byEvent[a.EventID]
		if roles == nil {
			roles = make(map[string]entry)
			b.byEvent[a.EventID] = roles
		}
		if prev, seen := roles[a.Role]; seen && prev.created.After(a.CreatedAt) {
			continue
		}
		roles[a.Role] = entry{status: st, created: a.CreatedAt}
	}
	return b
}

// Status returns the status for (eventID, role).
func (b *Book) Status(eventID primitive.ObjectID, role string) (Status, bool) {
	e, ok := b.byEvent[eventID][role]
	return e.status, ok
}

// HasActive reports whether any role at eventID is pending or approved.
func (b *Book) HasActive(eventID primitive.ObjectID) bool {
	for _, e := range b.byEvent[eventID] {
		if e.status.IsActive() {
			return true
		}
	}
	return false
}

// Decide returns the availability of role at ev. The explicit status for
// the role wins, then the registration requirement, then the one-active-
// application rule.
func (b *Book) Decide(ev models.Event, role string, registered bool) Availability {
	if st, ok := b.Status(ev.ID, role); ok {
		return Availability(st)
	}
	if !registered {
		return AvailRegisterFirst
	}
	if b.HasActive(ev.ID) {
		return AvailAppliedElsewhere
	}
	return AvailOpen
}

// RoleAvailability pairs a role with its availability.
type RoleAvailability struct {
	Role         string
	Availability Availability
}

// Roles lists every volunteer role of ev in its configured order.
func (b *Book) Roles(ev models.Event, registered bool) []RoleAvailability {
	out := make([]RoleAvailability, 0, len(ev.VolunteerRoles))
	for _, r := range ev.VolunteerRoles {
		out = append(out, RoleAvailability{Role: r, Availability: b.Decide(ev, r, registered)})
	}
	return out
}

// CheckApply validates a new application for role at ev by the owner of
// apps. registered is whether that student holds a registration for ev.
func CheckApply(ev models.Event, role string, registered bool, apps []models.VolunteerApplication, now time.Time) error {
	if !ev.EnableVolunteers {
		return ErrVolunteersDisabled
	}
	if ev.Expired(now) {
		return ErrEventExpired
	}
	if !ev.HasRole(role) {
		return ErrUnknownRole
	}
	if !registered {
		return ErrNotRegistered
	}
	book := NewBook(apps)
	if _, ok := book.Status(ev.ID, role); ok {
		return ErrAlreadyApplied
	}
	if book.HasActive(ev.ID) {
		return ErrActiveApplication
	}
	return nil
}
