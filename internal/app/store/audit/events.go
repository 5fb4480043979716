// internal/app/store/audit/events.go
package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryAuth     = "auth"
	CategoryAdmin    = "admin"
	CategoryActivity = "activity"
)

// Sign-in and session events.
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUnknownEmail  = "login_failed_unknown_email"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedNoProfile     = "login_failed_no_profile"
	EventLoginThrottled           = "login_throttled"
	EventProfileRepaired          = "profile_repaired"
	EventLogout                   = "logout"
)

// Actions taken by an admin.
const (
	EventStudentRegistered = "student_registered"
	EventEventCreated      = "event_created"
	EventEventDeleted      = "event_deleted"
	EventNoticeCreated     = "notice_created"
	EventNoticeUpdated     = "notice_updated"
	EventNoticeDeleted     = "notice_deleted"
	EventVolunteerReviewed = "volunteer_reviewed"
	EventAdminBootstrapped = "admin_bootstrapped"
)

// Actions taken by a student.
const (
	EventRegisteredForEvent = "registered_for_event"
	EventVolunteerApplied   = "volunteer_applied"
)

// Event is one row of the audit trail. UserID is the account the event is
// about; ActorID is the admin who caused it, when that differs.
type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Timestamp     time.Time           `bson:"timestamp"`
	Category      string              `bson:"category"`
	EventType     string              `bson:"event_type"`
	UserID        *primitive.ObjectID `bson:"user_id,omitempty"`
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty"`
	IP            string              `bson:"ip"`
	UserAgent     string              `bson:"user_agent,omitempty"`
	Success       bool                `bson:"success"`
	FailureReason string              `bson:"failure_reason,omitempty"`
	Details       map[string]string   `bson:"details,omitempty"`
}
