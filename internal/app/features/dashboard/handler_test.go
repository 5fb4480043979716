package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	noticestore "github.com/dalemusser/campushub/internal/app/store/notices"
	registrationstore "github.com/dalemusser/campushub/internal/app/store/registrations"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := dashboard.NewHandler(eventstore.New(db), noticestore.New(db), registrationstore.New(db),
		volunteerappstore.New(db), uierrors.NewErrorLogger(logger), logger)
	return h, db
}

func TestServeDashboard_DispatchesByRole(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"anonymous", httptest.NewRequest("GET", "/dashboard", nil), "/login"},
		{"admin", testutil.NewAuthenticatedRequest("GET", "/dashboard", testutil.AdminUser()), "/dashboard/admin"},
		{"student", testutil.NewAuthenticatedRequest("GET", "/dashboard", testutil.StudentUser("CSE", 2)), "/dashboard/student"},
		{"unknown role", auth.WithTestUser(httptest.NewRequest("GET", "/dashboard", nil), &auth.SessionUser{
			ID: "64b7f0a1c2d3e4f5a6b7c8d9", Role: "janitor",
		}), "/forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeDashboard(rec, tt.req)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}
		})
	}
}

func TestRoutes_RoleGuards(t *testing.T) {
	h, _ := newTestHandler(t)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := dashboard.Routes(h, sm)

	req := testutil.NewAuthenticatedRequest("GET", "/admin", testutil.StudentUser("CSE", 1))
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("student on admin dashboard: Location = %q, want /forbidden", loc)
	}

	req = testutil.NewAuthenticatedRequest("GET", "/student/stream", testutil.AdminUser())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin on student stream: status = %d, want 403", rec.Code)
	}
}

// The stream either delivers a board (replica set available) or reports the
// subscription failure as an SSE error event (standalone server).
func TestServeStudentStream(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Sam", "sam@campus.edu", "", "CSE", 3)
	fx.CreateEvent(ctx, "Hack Night", time.Now().Add(24*time.Hour))

	reqCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	req := testutil.NewAuthenticatedRequest("GET", "/dashboard/student/stream", testutil.UserFromProfile(student)).WithContext(reqCtx)
	req = testutil.WithUser(req, testutil.UserFromProfile(student))
	rec := httptest.NewRecorder()

	h.ServeStudentStream(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	switch {
	case strings.Contains(body, "event: board"):
		if !strings.Contains(body, "Hack Night") {
			t.Errorf("board event missing the event: %s", body)
		}
	case strings.Contains(body, "event: error"):
		if !strings.Contains(body, "Live updates stopped") {
			t.Errorf("error event missing message: %s", body)
		}
	default:
		t.Errorf("stream sent neither board nor error: %q", body)
	}
}
