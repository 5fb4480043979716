// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, log level and
// request limits live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies and CSRF tokens
	SessionName   string        // Cookie name for sessions (default: campushub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Google sign-in. Both blank disables the Google button.
	GoogleClientID     string
	GoogleClientSecret string

	// Public base URL, used to build the OAuth redirect URL.
	BaseURL string // e.g., "https://campus.example.edu" or "http://localhost:8080"

	// Audit logging: "all", "db", "log" or "off" per category.
	AuditLogAuth  string
	AuditLogAdmin string

	// BootstrapAdminEmail is promoted (or created) as an admin at startup.
	BootstrapAdminEmail string

	// StateCleanupInterval is how often expired OAuth states are purged.
	StateCleanupInterval time.Duration

	// DBTimeout is the deadline for single-document database calls. List,
	// startup and ping deadlines are derived from it.
	DBTimeout time.Duration
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
