// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in, sign-out and profile repair events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (events, notices, students, volunteer reviews).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) auth(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, failure string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       failure == "",
		FailureReason: failure,
		Details:       details,
	})
}

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, actorID string, userID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   oidPtr(actorID),
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// LoginSuccess logs a successful sign-in. method is "password" or "google".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	l.auth(ctx, r, audit.EventLoginSuccess, &userID, "", map[string]string{
		"auth_method": method,
		"email":       email,
	})
}

// LoginFailedUnknownEmail logs a sign-in attempt for an email with no identity.
func (l *Logger) LoginFailedUnknownEmail(ctx context.Context, r *http.Request, method, email string) {
	l.auth(ctx, r, audit.EventLoginFailedUnknownEmail, nil, "unknown email", map[string]string{
		"auth_method":     method,
		"attempted_email": email,
	})
}

// LoginFailedWrongPassword logs a failed password check.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.auth(ctx, r, audit.EventLoginFailedWrongPassword, &userID, "wrong password", map[string]string{
		"email": email,
	})
}

// LoginFailedNoProfile logs an identity that signed in but has no portal profile.
func (l *Logger) LoginFailedNoProfile(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	l.auth(ctx, r, audit.EventLoginFailedNoProfile, &userID, "account not registered", map[string]string{
		"auth_method": method,
		"email":       email,
	})
}

// LoginThrottled logs a password attempt refused by the rate limiter.
func (l *Logger) LoginThrottled(ctx context.Context, r *http.Request, email string) {
	l.auth(ctx, r, audit.EventLoginThrottled, nil, "rate limited", map[string]string{
		"attempted_email": email,
	})
}

// ProfileRepaired logs fields written back to a profile at sign-in.
func (l *Logger) ProfileRepaired(ctx context.Context, r *http.Request, userID primitive.ObjectID, fields string) {
	l.auth(ctx, r, audit.EventProfileRepaired, &userID, "", map[string]string{
		"fields": fields,
	})
}

// Logout logs a sign-out. userIDStr comes from the session and may be invalid.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	l.auth(ctx, r, audit.EventLogout, oidPtr(userIDStr), "", nil)
}

// StudentRegistered logs an admin creating a student account.
func (l *Logger) StudentRegistered(ctx context.Context, r *http.Request, actorID string, studentID primitive.ObjectID, email, branch string) {
	l.admin(ctx, r, audit.EventStudentRegistered, actorID, &studentID, map[string]string{
		"email":  email,
		"branch": branch,
	})
}

// EventCreated logs an admin publishing an event.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, actorID string, eventID primitive.ObjectID, title string) {
	l.admin(ctx, r, audit.EventEventCreated, actorID, nil, map[string]string{
		"event_id": eventID.Hex(),
		"title":    title,
	})
}

// EventDeleted logs an admin deleting an event.
func (l *Logger) EventDeleted(ctx context.Context, r *http.Request, actorID string, eventID primitive.ObjectID, title string) {
	l.admin(ctx, r, audit.EventEventDeleted, actorID, nil, map[string]string{
		"event_id": eventID.Hex(),
		"title":    title,
	})
}

// NoticeCreated logs an admin posting a notice.
func (l *Logger) NoticeCreated(ctx context.Context, r *http.Request, actorID string, noticeID primitive.ObjectID, title string) {
	l.admin(ctx, r, audit.EventNoticeCreated, actorID, nil, map[string]string{
		"notice_id": noticeID.Hex(),
		"title":     title,
	})
}

// NoticeUpdated logs an admin editing a notice.
func (l *Logger) NoticeUpdated(ctx context.Context, r *http.Request, actorID string, noticeID primitive.ObjectID, title string) {
	l.admin(ctx, r, audit.EventNoticeUpdated, actorID, nil, map[string]string{
		"notice_id": noticeID.Hex(),
		"title":     title,
	})
}

// NoticeDeleted logs an admin deleting a notice.
func (l *Logger) NoticeDeleted(ctx context.Context, r *http.Request, actorID string, noticeID primitive.ObjectID) {
	l.admin(ctx, r, audit.EventNoticeDeleted, actorID, nil, map[string]string{
		"notice_id": noticeID.Hex(),
	})
}

// VolunteerReviewed logs an admin decision on a volunteer application.
func (l *Logger) VolunteerReviewed(ctx context.Context, r *http.Request, actorID string, applicantID, appID primitive.ObjectID, status string) {
	l.admin(ctx, r, audit.EventVolunteerReviewed, actorID, &applicantID, map[string]string{
		"application_id": appID.Hex(),
		"status":         status,
	})
}

// RegisteredForEvent logs a student registering for an event.
func (l *Logger) RegisteredForEvent(ctx context.Context, r *http.Request, userID, eventID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventRegisteredForEvent,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"event_id": eventID.Hex()},
	})
}

// VolunteerApplied logs a student applying for a volunteer role.
func (l *Logger) VolunteerApplied(ctx context.Context, r *http.Request, userID, eventID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventVolunteerApplied,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"event_id": eventID.Hex(),
			"role":     role,
		},
	})
}
