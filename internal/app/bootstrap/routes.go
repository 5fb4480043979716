// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	auditlogfeature "github.com/dalemusser/campushub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/campushub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/campushub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/campushub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/campushub/internal/app/features/events"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	homefeature "github.com/dalemusser/campushub/internal/app/features/home"
	loginfeature "github.com/dalemusser/campushub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/campushub/internal/app/features/logout"
	noticesfeature "github.com/dalemusser/campushub/internal/app/features/notices"
	profilefeature "github.com/dalemusser/campushub/internal/app/features/profile"
	registerfeature "github.com/dalemusser/campushub/internal/app/features/register"
	volunteersfeature "github.com/dalemusser/campushub/internal/app/features/volunteers"
	"github.com/dalemusser/campushub/internal/app/resources"
	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	noticestore "github.com/dalemusser/campushub/internal/app/store/notices"
	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	registrationstore "github.com/dalemusser/campushub/internal/app/store/registrations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	volunteerappstore "github.com/dalemusser/campushub/internal/app/store/volunteerapps"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authutil"
	"github.com/dalemusser/campushub/internal/app/system/preferences"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It boots the template engine, builds
// the stores once, applies session, preference and CSRF middleware, and
// mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// LoadSessionUser reloads the profile on every request so role and
	// theme changes apply immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	resources.LoadSharedTemplates()
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Stores
	identities := identitystore.New(db)
	users := userstore.New(db)
	events := eventstore.New(db)
	notices := noticestore.New(db)
	registrations := registrationstore.New(db)
	applications := volunteerappstore.New(db)
	states := oauthstate.New(db)

	auditEvents := auditstore.New(db)

	errLog := errorsfeature.NewErrorLogger(logger)
	audit := auditlog.New(auditEvents, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	finisher := &authutil.Finisher{
		Users:         users,
		Sessions:      sessionMgr,
		Audit:         audit,
		Log:           logger,
		SecureCookies: secure,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(preferences.Middleware(func(r *http.Request) string {
		if u, ok := auth.CurrentUser(r); ok {
			return u.Theme
		}
		return ""
	}))
	r.Use(csrfMiddleware(appCfg.SessionKey, secure))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(identities, finisher, errLog, audit, appCfg.GoogleEnabled(), logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	googleHandler := authgooglefeature.NewHandler(identities, users, states, finisher, audit,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Preferences and profile
	profileHandler := profilefeature.NewHandler(users, secure, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))
	r.Mount("/preferences", profilefeature.PreferenceRoutes(profileHandler))

	// Role-based dashboards, including the live student board
	dashboardHandler := dashboardfeature.NewHandler(events, notices, registrations, applications, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Events: admin management and student actions
	eventsHandler := eventsfeature.NewHandler(events, registrations, applications, users, errLog, audit, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	// Volunteer review
	volunteersHandler := volunteersfeature.NewHandler(events, applications, errLog, audit, logger)
	r.Mount("/volunteers", volunteersfeature.Routes(volunteersHandler, sessionMgr))

	// Notices
	noticesHandler := noticesfeature.NewHandler(notices, errLog, audit, logger)
	r.Mount("/admin/notices", noticesfeature.AdminRoutes(noticesHandler, sessionMgr))
	r.Mount("/notices", noticesfeature.StudentRoutes(noticesHandler, sessionMgr))

	// Admin student registration
	registerHandler := registerfeature.NewHandler(identities, users, errLog, audit, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler, sessionMgr))

	// Audit trail
	auditHandler := auditlogfeature.NewHandler(auditEvents, users, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

// csrfMiddleware protects every state-changing form. The token key is
// derived from the session key so tokens survive restarts. Outside prod the
// site is served over plain HTTP, which gorilla/csrf must be told about.
func csrfMiddleware(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("campushub-csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
