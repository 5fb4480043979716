// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/authutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultUserInfoURL is Google's OAuth2 userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Handler runs Google sign-in for accounts that already exist. Endpoint
// and UserInfoURL are fields so tests can point them at a fake provider.
type Handler struct {
	Identities *identitystore.Store
	Users      *userstore.Store
	Pending    *oauthstate.Store
	Finisher   *authutil.Finisher
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
}

func NewHandler(
	ids *identitystore.Store,
	users *userstore.Store,
	pending *oauthstate.Store,
	fin *authutil.Finisher,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Identities:   ids,
		Users:        users,
		Pending:      pending,
		Finisher:     fin,
		AuditLog:     audit,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
		UserInfoURL:  DefaultUserInfoURL,
	}
}

// Configured reports whether client credentials are present.
func (h *Handler) Configured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     h.Endpoint,
	}
}
