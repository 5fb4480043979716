// Package preferences carries per-visitor display preferences. The theme is
// kept in a cookie so it applies before sign-in, and mirrored to the
// profile for signed-in users.
package preferences

import (
	"context"
	"net/http"
	"time"
)

// CookieName is the cookie holding the theme.
const CookieName = "campushub_theme"

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the resolved preference set for one request.
type Preferences struct {
	Theme string
}

// Normalize maps unknown themes to light.
func Normalize(theme string) string {
	if theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

type ctxKey struct{}

// Load returns preferences from the cookie, falling back to profileTheme
// and then to light.
func Load(r *http.Request, profileTheme string) Preferences {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return Preferences{Theme: Normalize(c.Value)}
	}
	if profileTheme != "" {
		return Preferences{Theme: Normalize(profileTheme)}
	}
	return Preferences{Theme: ThemeLight}
}

// Save writes p to the response cookie.
func Save(w http.ResponseWriter, p Preferences, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    Normalize(p.Theme),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// With stores p in ctx.
func With(ctx context.Context, p Preferences) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// From returns the request's preferences, or light defaults.
func From(r *http.Request) Preferences {
	if p, ok := r.Context().Value(ctxKey{}).(Preferences); ok {
		return p
	}
	return Preferences{Theme: ThemeLight}
}

// Middleware loads preferences at request start. profileTheme returns the
// signed-in user's saved theme, or "".
func Middleware(profileTheme func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			saved := ""
			if profileTheme != nil {
				saved = profileTheme(r)
			}
			p := Load(r, saved)
			next.ServeHTTP(w, r.WithContext(With(r.Context(), p)))
		})
	}
}
