// internal/app/features/authgoogle/flow.go
package authgoogle

import (
	"context"
	"errors"
	"net/http"
	"time"

	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	"github.com/dalemusser/campushub/internal/app/system/authutil"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// pendingTTL bounds how long a user may sit on Google's consent screen.
const pendingTTL = 10 * time.Minute

func toLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

// ServeLogin handles GET /auth/google. It records a one-time state and a
// PKCE verifier, then sends the browser to Google.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.Configured() {
		h.Log.Warn("Google sign-in requested but not configured")
		toLogin(w, r, "google_not_configured")
		return
	}

	p := oauthstate.Pending{
		State:     oauth2.GenerateVerifier(),
		Verifier:  oauth2.GenerateVerifier(),
		ReturnURL: query.Get(r, "return"),
		ExpiresAt: time.Now().Add(pendingTTL),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Pending.Save(ctx, p); err != nil {
		h.Log.Error("save oauth state failed", zap.Error(err))
		toLogin(w, r, "internal")
		return
	}

	dest := h.config().AuthCodeURL(p.State,
		oauth2.S256ChallengeOption(p.Verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"))
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback. Only identities that
// already exist may sign in; unknown Google accounts are turned away.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if denied := query.Get(r, "error"); denied != "" {
		h.Log.Info("Google sign-in declined",
			zap.String("error", denied),
			zap.String("description", query.Get(r, "error_description")))
		toLogin(w, r, "google_denied")
		return
	}

	sctx, scancel := context.WithTimeout(r.Context(), timeouts.Short())
	p, err := h.Pending.Consume(sctx, query.Get(r, "state"))
	scancel()
	switch {
	case errors.Is(err, oauthstate.ErrInvalid):
		h.Log.Info("oauth state rejected")
		toLogin(w, r, "invalid_state")
		return
	case err != nil:
		h.Log.Error("consume oauth state failed", zap.Error(err))
		toLogin(w, r, "internal")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		toLogin(w, r, "invalid_code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tok, err := h.config().Exchange(ctx, code, oauth2.VerifierOption(p.Verifier))
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		toLogin(w, r, "token_exchange")
		return
	}

	acct, err := h.fetchAccount(ctx, tok)
	if err != nil {
		h.Log.Error("fetch Google account failed", zap.Error(err))
		toLogin(w, r, "user_info")
		return
	}

	id, err := h.resolveIdentity(ctx, acct)
	switch {
	case errors.Is(err, identitystore.ErrNotFound):
		h.Log.Info("Google account has no identity", zap.String("email", acct.Email))
		h.AuditLog.LoginFailedUnknownEmail(ctx, r, authutil.MethodGoogle, acct.Email)
		toLogin(w, r, "no_account")
		return
	case err != nil:
		h.Log.Error("resolve identity failed", zap.Error(err))
		toLogin(w, r, "internal")
		return
	}

	h.syncProfile(ctx, id.ID, acct)
	h.Finisher.Complete(w, r, id.ID, acct.Email, authutil.MethodGoogle, p.ReturnURL)
}
