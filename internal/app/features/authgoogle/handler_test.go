package authgoogle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/authgoogle"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authutil"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fakeGoogle struct {
	*httptest.Server
	user map[string]any
}

func newFakeGoogle(t *testing.T, user map[string]any) *fakeGoogle {
	t.Helper()
	fg := &fakeGoogle{user: user}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code_verifier") == "" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fg.user)
	})
	fg.Server = httptest.NewServer(mux)
	t.Cleanup(fg.Close)
	return fg
}

func newTestHandler(t *testing.T, db *mongo.Database, fg *fakeGoogle) *authgoogle.Handler {
	t.Helper()
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	users := userstore.New(db)
	fin := &authutil.Finisher{Users: users, Sessions: sessionMgr, Log: logger}
	h := authgoogle.NewHandler(identitystore.New(db), users, oauthstate.New(db), fin, nil,
		"test-client-id", "test-client-secret", "http://localhost:8080", logger)
	if fg != nil {
		h.Endpoint = oauth2.Endpoint{AuthURL: fg.URL + "/auth", TokenURL: fg.URL + "/token"}
		h.UserInfoURL = fg.URL + "/userinfo"
	}
	return h
}

// startFlow runs ServeLogin and returns the state it stored.
func startFlow(t *testing.T, h *authgoogle.Handler, ret string) string {
	t.Helper()
	target := "/auth/google"
	if ret != "" {
		target += "?return=" + url.QueryEscape(ret)
	}
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", target, nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("ServeLogin status = %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect: %v", err)
	}
	q := loc.Query()
	state := q.Get("state")
	if state == "" {
		t.Fatal("no state in redirect")
	}
	if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != "S256" {
		t.Fatalf("missing PKCE challenge: %s", loc.RawQuery)
	}
	return state
}

func callback(h *authgoogle.Handler, state string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state="+url.QueryEscape(state)+"&code=abc", nil))
	return rec
}

func TestServeLogin_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, nil)
	h.ClientID = ""

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallback_LinksByEmailAndRefreshesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Old Name", "ada@campus.edu", "")
	fg := newFakeGoogle(t, map[string]any{
		"id": "g-123", "email": "ada@campus.edu", "verified_email": true,
		"name": "Ada Lovelace", "picture": "https://img/ada.png",
	})
	h := newTestHandler(t, db, fg)

	state := startFlow(t, h, "")
	rec := callback(h, state)
	if loc := rec.Header().Get("Location"); loc != "/dashboard/admin" {
		t.Fatalf("Location = %q, want /dashboard/admin", loc)
	}

	id, err := identitystore.New(db).GetByGoogleID(ctx, "g-123")
	if err != nil || id.ID != admin.ID {
		t.Errorf("google subject not linked: %v", err)
	}
	got, _ := userstore.New(db).GetByID(ctx, admin.ID)
	if got.Name != "Ada Lovelace" || got.Photo != "https://img/ada.png" || got.Role != models.RoleAdmin {
		t.Errorf("profile not refreshed: %+v", got)
	}

	// The state is single use.
	rec = callback(h, state)
	if loc := rec.Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("replayed state Location = %q", loc)
	}
}

func TestServeCallback_UnknownAccountIsNotProvisioned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fg := newFakeGoogle(t, map[string]any{
		"id": "g-999", "email": "stranger@gmail.com", "verified_email": true, "name": "Stranger",
	})
	h := newTestHandler(t, db, fg)

	rec := callback(h, startFlow(t, h, ""))
	if loc := rec.Header().Get("Location"); loc != "/login?error=no_account" {
		t.Errorf("Location = %q, want no_account", loc)
	}
	n, _ := db.Collection("identities").CountDocuments(ctx, map[string]any{})
	if n != 0 {
		t.Errorf("identities created: %d", n)
	}
}

func TestServeCallback_IdentityWithoutProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateIdentity(ctx, "orphan@campus.edu", "")
	fg := newFakeGoogle(t, map[string]any{
		"id": "g-1", "email": "orphan@campus.edu", "verified_email": true, "name": "Orphan",
	})
	h := newTestHandler(t, db, fg)

	rec := callback(h, startFlow(t, h, ""))
	if loc := rec.Header().Get("Location"); loc != "/login?error=no_account" {
		t.Errorf("Location = %q, want no_account", loc)
	}
}

func TestServeCallback_ReturnURLRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateStudent(ctx, "Sam", "sam@campus.edu", "", "CSE", 2)
	fg := newFakeGoogle(t, map[string]any{
		"id": "g-2", "email": "sam@campus.edu", "verified_email": true, "name": "Sam",
	})
	h := newTestHandler(t, db, fg)

	rec := callback(h, startFlow(t, h, "/notices"))
	if loc := rec.Header().Get("Location"); loc != "/notices" {
		t.Errorf("Location = %q, want /notices", loc)
	}
}

func TestServeCallback_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, nil)

	tests := []struct {
		query string
		want  string
	}{
		{"error=access_denied", "/login?error=google_denied"},
		{"code=abc", "/login?error=invalid_state"},
		{"state=unknown&code=abc", "/login?error=invalid_state"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?"+tt.query, nil))
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, tt.want) {
			t.Errorf("%s: Location = %q, want %q", tt.query, loc, tt.want)
		}
	}
}

func TestServeCallback_UnverifiedEmailIsNotLinked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateStudent(ctx, "Sam", "sam@campus.edu", "", "CSE", 2)
	fg := newFakeGoogle(t, map[string]any{
		"id": "g-3", "email": "sam@campus.edu", "verified_email": false, "name": "Sam",
	})
	h := newTestHandler(t, db, fg)

	rec := callback(h, startFlow(t, h, ""))
	if loc := rec.Header().Get("Location"); loc != "/login?error=no_account" {
		t.Errorf("Location = %q, want no_account", loc)
	}
	if _, err := identitystore.New(db).GetByGoogleID(ctx, "g-3"); err == nil {
		t.Error("unverified Google account was linked")
	}
}
