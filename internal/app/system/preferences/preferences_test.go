package preferences_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/preferences"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		profile string
		want    string
	}{
		{"default", "", "", "light"},
		{"profile", "", "dark", "dark"},
		{"cookie wins", "light", "dark", "light"},
		{"unknown cookie", "neon", "", "light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: preferences.CookieName, Value: tt.cookie})
			}
			if got := preferences.Load(req, tt.profile).Theme; got != tt.want {
				t.Errorf("Theme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSave_SetsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	preferences.Save(rec, preferences.Preferences{Theme: "dark"}, false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "dark" {
		t.Fatalf("cookies = %+v", cookies)
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := preferences.Middleware(func(*http.Request) string { return "dark" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = preferences.From(r).Theme
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if got != "dark" {
		t.Errorf("Theme = %q, want dark", got)
	}
}
