package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

// gateCase describes one request through a guard middleware.
type gateCase struct {
	name     string
	role     string // empty means no signed-in user
	headers  map[string]string
	wantCode int
	wantLoc  string // prefix of Location, or of HX-Redirect for htmx
}

func runGate(t *testing.T, mw func(http.Handler) http.Handler, tests []gateCase) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/dashboard/admin", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if tc.role != "" {
				req = withTestUser(req, tc.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if reached != (tc.wantCode == http.StatusOK) {
				t.Errorf("next handler reached = %v", reached)
			}
			loc := rec.Header().Get("Location")
			if hx := rec.Header().Get("HX-Redirect"); hx != "" {
				loc = hx
			}
			if !strings.HasPrefix(loc, tc.wantLoc) {
				t.Errorf("redirect = %q, want prefix %q", loc, tc.wantLoc)
			}
		})
	}
}

var (
	html = map[string]string{"Accept": "text/html"}
	api  = map[string]string{"Accept": "application/json"}
	htmx = map[string]string{"HX-Request": "true"}
)

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t)
	runGate(t, sm.RequireSignedIn, []gateCase{
		{name: "visitor page", headers: html, wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "visitor api", headers: api, wantCode: http.StatusUnauthorized},
		{name: "visitor htmx", headers: htmx, wantCode: http.StatusUnauthorized, wantLoc: "/login"},
		{name: "student", role: "student", headers: html, wantCode: http.StatusOK},
	})
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	runGate(t, sm.RequireRole("admin"), []gateCase{
		{name: "visitor", headers: html, wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "student page", role: "student", headers: html, wantCode: http.StatusSeeOther, wantLoc: "/forbidden"},
		{name: "student api", role: "student", headers: api, wantCode: http.StatusForbidden},
		{name: "admin", role: "admin", wantCode: http.StatusOK},
		{name: "role case is ignored", role: "ADMIN", wantCode: http.StatusOK},
	})
}

func TestRequireRole_AnyOf(t *testing.T) {
	sm := newTestSessionManager(t)
	runGate(t, sm.RequireRole("admin", "student"), []gateCase{
		{name: "admin", role: "admin", headers: html, wantCode: http.StatusOK},
		{name: "student", role: "student", headers: html, wantCode: http.StatusOK},
		{name: "unknown role", role: "visitor", headers: html, wantCode: http.StatusSeeOther, wantLoc: "/forbidden"},
	})
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := auth.CurrentUser(req); ok || u != nil {
		t.Errorf("anonymous request: got (%v, %v)", u, ok)
	}

	u, ok := auth.CurrentUser(withTestUser(req, "admin"))
	if !ok || u == nil || u.Role != "admin" {
		t.Errorf("signed-in request: got (%+v, %v)", u, ok)
	}
}

func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       "507f1f77bcf86cd799439011",
		Name:     "Test User",
		Email:    "test@example.com",
		Role:     role,
		Branch:   "CSE",
		Semester: 3,
	})
}

func TestNewSessionManager_ShortKey(t *testing.T) {
	_, err := auth.NewSessionManager("short", "s", "", time.Hour, false, zap.NewNop())
	if err != auth.ErrSessionKeyTooShort {
		t.Errorf("err = %v, want ErrSessionKeyTooShort", err)
	}
}

type stubFetcher struct {
	user *auth.SessionUser
}

func (f stubFetcher) FetchUser(_ context.Context, _ string) *auth.SessionUser {
	return f.user
}

// signInCookie runs SignIn and returns the resulting cookie.
func signInCookie(t *testing.T, sm *auth.SessionManager, role string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, req, &auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Asha", Role: role})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}
	return cookies[0]
}

func TestLoadSessionUser_FromCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	cookie := signInCookie(t, sm, "student")

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.Name != "Asha" || got.Role != "student" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadSessionUser_FetcherRefreshesProfile(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{user: &auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Asha K", Role: "admin"}})
	cookie := signInCookie(t, sm, "student")

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Role != "admin" || got.Name != "Asha K" {
		t.Errorf("expected refreshed admin profile, got %+v", got)
	}
}

func TestLoadSessionUser_FetcherMissingProfileSignsOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})
	cookie := signInCookie(t, sm, "student")

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected no user when the profile is gone")
	}
}

func TestLoadSessionUser_RotatedKeyIsAnonymous(t *testing.T) {
	old, err := auth.NewSessionManager("an-older-session-key-of-32-chars-xx", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	cookie := signInCookie(t, old, "admin")

	sm := newTestSessionManager(t)
	found, called := true, false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, found = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("next handler not called")
	}
	if found {
		t.Error("cookie signed with an old key should not sign the request in")
	}
}

func TestSignIn_ReplacesUndecodableCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("POST", "/login", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})
	rec := httptest.NewRecorder()

	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "507f1f77bcf86cd799439011", Role: "student"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a fresh session cookie")
	}
}
