// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a campus event published by an admin.
// Expiry is never stored; compare Date against the current time on read.
type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Date             Instant            `bson:"date" json:"date"`
	Venue            string             `bson:"venue" json:"venue"`
	Category         string             `bson:"category" json:"category"`
	Branches         []string           `bson:"branches" json:"branches"`
	Semesters        Semesters          `bson:"semesters" json:"semesters"`
	EnableVolunteers bool               `bson:"enable_volunteers" json:"enable_volunteers"`
	VolunteerRoles   []string           `bson:"volunteer_roles" json:"volunteer_roles"`
	CreatedBy        primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// Expired reports whether now is strictly after the event date.
func (e Event) Expired(now time.Time) bool {
	return now.After(e.Date.Time)
}

// HasRole reports whether role is one of the event's volunteer roles.
func (e Event) HasRole(role string) bool {
	for _, r := range e.VolunteerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DateLabel formats the event date for display, in UTC.
func (e Event) DateLabel() string {
	if e.Date.IsZero() {
		return "Date to be announced"
	}
	return e.Date.UTC().Format("Mon, Jan 2 2006 · 3:04 PM UTC")
}
