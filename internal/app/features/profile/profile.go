// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/preferences"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type profileData struct {
	viewdata.BaseVM

	FullName string
	Email    string
	RoleName string
	Branch   string
	Semester int
	Photo    string

	ThemeChoice string
}

// ServeProfile renders the signed-in user's profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "Could not load your profile.", "/")
		return
	}

	vm := viewdata.NewBaseVM(r, "Profile", "/dashboard")
	if query.Get(r, "success") == "theme" {
		vm.Success = "Preferences saved."
	}

	templates.Render(w, r, "profile", profileData{
		BaseVM:      vm,
		FullName:    u.DisplayName(u.Email),
		Email:       u.Email,
		RoleName:    u.Role,
		Branch:      u.Branch,
		Semester:    u.Semester,
		Photo:       u.Photo,
		ThemeChoice: preferences.From(r).Theme,
	})
}

// HandleTheme saves the theme cookie, and for signed-in users the profile
// too, then returns to the page the form was posted from.
func (h *Handler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	p := preferences.Preferences{Theme: preferences.Normalize(r.PostFormValue("theme"))}
	preferences.Save(w, p, h.SecureCookies)

	if _, _, uid, ok := authz.UserCtx(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Users.SetTheme(ctx, uid, p.Theme); err != nil {
			// The cookie already carries the choice; the profile catches up
			// on the next save.
			h.Log.Warn("save theme to profile failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		}
	}

	http.Redirect(w, r, urlutil.SafeReturn(r.PostFormValue("return"), "", "/"), http.StatusSeeOther)
}
