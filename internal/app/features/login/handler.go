// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/authutil"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Identities    *identitystore.Store
	Finisher      *authutil.Finisher
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Limiter       *ratelimit.LoginLimiter
	GoogleEnabled bool
}

func NewHandler(ids *identitystore.Store, fin *authutil.Finisher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Identities:    ids,
		Finisher:      fin,
		Log:           logger,
		ErrLog:        errLog,
		AuditLog:      audit,
		Limiter:       ratelimit.NewLoginLimiter(),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type loginInput struct {
	Email    string `validate:"required,emailaddr" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// errorText maps ?error= codes set by the sign-in flows to messages.
var errorText = map[string]string{
	"no_account":            "This account is not registered with CampusHub. Ask an administrator to register you.",
	"internal":              "Something went wrong. Please try again.",
	"session":               "Unable to create session. Please try again.",
	"google_not_configured": "Google sign-in is not available.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your sign-in link expired. Please try again.",
	"invalid_code":          "Google sign-in failed. Please try again.",
	"token_exchange":        "Google sign-in failed. Please try again.",
	"user_info":             "Could not read your Google profile. Please try again.",
}

// ServeLogin renders the form. Signed-in users go to their dashboard.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if role, _, _, ok := authz.UserCtx(r); ok {
		http.Redirect(w, r, authz.RoleHome(role), http.StatusSeeOther)
		return
	}
	h.render(w, r, errorText[query.Get(r, "error")], "", query.Get(r, "return"))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	vm := viewdata.NewBaseVM(r, "Sign in", "/")
	vm.Error = msg
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        vm,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

// HandleLoginPost verifies email and password, then hands off to the
// finisher which resolves the profile and opens the session.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form.", "/login")
		return
	}
	in := loginInput{
		Email:    normalize.Email(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	ret := r.PostFormValue("return")

	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, res.First(), in.Email, ret)
		return
	}

	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.Log.Warn("sign-in throttled",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", in.Email))
		h.AuditLog.LoginThrottled(r.Context(), r, in.Email)
		h.render(w, r, reason, in.Email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Identities.Authenticate(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, identitystore.ErrNotFound):
		h.AuditLog.LoginFailedUnknownEmail(ctx, r, authutil.MethodPassword, in.Email)
		h.render(w, r, "Invalid email or password.", in.Email, ret)
		return
	case errors.Is(err, identitystore.ErrBadPassword):
		h.AuditLog.LoginFailedWrongPassword(ctx, r, id.ID, in.Email)
		h.render(w, r, "Invalid email or password.", in.Email, ret)
		return
	case err != nil:
		h.Log.Error("authenticate failed", zap.Error(err), zap.String("email", in.Email))
		h.render(w, r, errorText["internal"], in.Email, ret)
		return
	}

	h.Limiter.ResetEmail(in.Email)
	h.Finisher.Complete(w, r, id.ID, id.Email, authutil.MethodPassword, ret)
}
