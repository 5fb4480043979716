// Package volunteering holds the volunteer application rules: which roles
// a student may apply for, and how admins move an application through
// review.
package volunteering

import (
	"errors"
	"strings"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus reads a stored status. Comparison ignores case and spaces.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

// StoredStatus reads a stored status the way every reader must agree on:
// a missing or unreadable value is an application still awaiting review.
func StoredStatus(s string) Status {
	if st, ok := ParseStatus(s); ok {
		return st
	}
	return StatusPending
}

// IsActive reports whether the application still holds the student's single
// active slot for its event.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// Terminal reports whether the status is a review outcome.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var (
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	ErrTerminal        = errors.New("application has already been reviewed")
)

// Review validates moving an application from current to decision.
//
// Pending may move to either outcome. Repeating the outcome an application
// already has is allowed so a reviewer can restamp it; switching outcomes
// is refused with ErrTerminal.
func Review(current, decision Status) error {
	if !decision.Terminal() {
		return ErrInvalidDecision
	}
	if current == StatusPending || current == decision {
		return nil
	}
	return ErrTerminal
}
