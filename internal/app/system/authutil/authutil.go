// Package authutil finishes a sign-in once an identity has been verified,
// whichever provider verified it.
package authutil

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/preferences"
	"github.com/dalemusser/campushub/internal/app/system/rolerepair"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Auth methods recorded in the audit log.
const (
	MethodPassword = "password"
	MethodGoogle   = "google"
)

// Finisher resolves the profile for a verified identity and opens the session.
type Finisher struct {
	Users         *userstore.Store
	Sessions      *auth.SessionManager
	Audit         *auditlog.Logger
	Log           *zap.Logger
	SecureCookies bool
}

// Complete signs identityID in and redirects.
//
// An identity without a profile is signed out and sent to
// /login?error=no_account. A profile missing its role or name is repaired
// first; a failed repair write is logged and the sign-in continues with the
// resolved values.
func (f *Finisher) Complete(w http.ResponseWriter, r *http.Request, identityID primitive.ObjectID, email, method, returnURL string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := f.Users.Find(ctx, identityID)
	if err != nil {
		f.Log.Error("load profile failed", zap.Error(err), zap.String("user_id", identityID.Hex()))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	res, err := rolerepair.Resolve(profile, email)
	if errors.Is(err, rolerepair.ErrProfileNotFound) {
		_ = f.Sessions.SignOut(w, r)
		f.Audit.LoginFailedNoProfile(ctx, r, identityID, method, email)
		http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		return
	}

	if res.NeedsRepair() {
		if err := f.Users.ApplyCorrections(ctx, identityID, res.Corrections); err != nil {
			f.Log.Warn("profile repair failed", zap.Error(err), zap.String("user_id", identityID.Hex()))
		} else {
			fields := make([]string, 0, len(res.Corrections))
			for _, c := range res.Corrections {
				fields = append(fields, c.Field)
			}
			f.Audit.ProfileRepaired(ctx, r, identityID, strings.Join(fields, ","))
		}
	}

	su := &auth.SessionUser{
		ID:       identityID.Hex(),
		Name:     res.Name,
		Email:    profile.Email,
		Role:     res.Role,
		Branch:   profile.Branch,
		Semester: profile.Semester,
		Photo:    profile.Photo,
		Theme:    profile.ThemePreference,
	}
	if su.Email == "" {
		su.Email = email
	}
	if err := f.Sessions.SignIn(w, r, su); err != nil {
		f.Log.Error("save session failed", zap.Error(err), zap.String("user_id", su.ID))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}
	if profile.ThemePreference != "" {
		preferences.Save(w, preferences.Preferences{Theme: profile.ThemePreference}, f.SecureCookies)
	}
	f.Audit.LoginSuccess(ctx, r, identityID, method, su.Email)

	dest := urlutil.SafeReturn(returnURL, "", authz.RoleHome(res.Role))
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
