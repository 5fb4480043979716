package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "password", "a@b.edu")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting string
		want    int
	}{
		{"off", 0},
		{"log", 0},
		{"db", 1},
		{"all", 1},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			userID := primitive.NewObjectID()
			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: tt.setting})
			logger.Log(ctx, audit.Event{
				Category:  audit.CategoryAuth,
				EventType: audit.EventLoginSuccess,
				UserID:    &userID,
				Success:   true,
			})

			events, err := store.ForUser(ctx, userID, 10)
			if err != nil {
				t.Fatalf("ForUser failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestLogger_LoginFailedWrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("User-Agent", "TestBrowser/1.0")
	logger.LoginFailedWrongPassword(ctx, req, userID, "s@campus.edu")

	events, err := store.ForUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.EventType != audit.EventLoginFailedWrongPassword {
		t.Errorf("EventType: got %q", ev.EventType)
	}
	if ev.Success {
		t.Error("expected Success to be false")
	}
	if ev.FailureReason != "wrong password" {
		t.Errorf("FailureReason: got %q", ev.FailureReason)
	}
	if ev.IP != "192.168.1.1" {
		t.Errorf("IP: got %q, want port stripped", ev.IP)
	}
	if ev.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent: got %q", ev.UserAgent)
	}
}

func TestLogger_AdminEventCarriesActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	student := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"})

	req := httptest.NewRequest("POST", "/register", nil)
	logger.StudentRegistered(ctx, req, actor.Hex(), student, "s@campus.edu", "CSE")

	events, _ := store.ForUser(ctx, student, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ActorID == nil || *events[0].ActorID != actor {
		t.Error("expected ActorID to be set")
	}
	if events[0].Details["branch"] != "CSE" {
		t.Errorf("branch detail: got %q", events[0].Details["branch"])
	}
}

func TestLogger_CategoryFilteredByConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"})
	req := httptest.NewRequest("GET", "/", nil)

	userID := primitive.NewObjectID()
	logger.LoginSuccess(ctx, req, userID, "password", "a@campus.edu")
	logger.VolunteerReviewed(ctx, req, primitive.NewObjectID().Hex(), userID, primitive.NewObjectID(), "approved")

	events, _ := store.ForUser(ctx, userID, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != audit.CategoryAdmin {
		t.Errorf("Category: got %q", events[0].Category)
	}
}

func TestLogger_ActivityAlwaysRecorded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})
	req := httptest.NewRequest("POST", "/", nil)

	userID := primitive.NewObjectID()
	logger.RegisteredForEvent(ctx, req, userID, primitive.NewObjectID())

	events, _ := store.ForUser(ctx, userID, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestGetClientIP_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "203.0.113.195, 10.0.0.1", "192.168.1.1", "127.0.0.1:1", "203.0.113.195"},
		{"real ip", "", "192.168.1.100", "127.0.0.1:1", "192.168.1.100"},
		{"remote addr", "", "", "10.0.0.5:12345", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			userID := primitive.NewObjectID()
			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			req.RemoteAddr = tt.remote
			logger.LoginSuccess(ctx, req, userID, "password", "a@campus.edu")

			events, _ := store.ForUser(ctx, userID, 10)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].IP != tt.want {
				t.Errorf("IP: got %q, want %q", events[0].IP, tt.want)
			}
		})
	}
}
