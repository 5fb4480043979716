// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dalemusser/campushub/internal/app/resources"
	"github.com/dalemusser/campushub/internal/app/store/audit"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/workers"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	workerMu     sync.Mutex
	stateCleanup *workers.StateCleanup
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// registers the shared templates, ensures the bootstrap admin, and starts
// the OAuth state cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	logDecodeIssues(logger)

	if appCfg.BootstrapAdminEmail != "" {
		actx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "bootstrap admin")
		err := ensureBootstrapAdmin(actx, deps, appCfg.BootstrapAdminEmail, logger)
		cancel()
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	workerMu.Lock()
	defer workerMu.Unlock()
	stateCleanup = workers.NewStateCleanup(oauthstate.New(deps.MongoDatabase), logger, appCfg.StateCleanupInterval)
	stateCleanup.Start()
	return nil
}

// logDecodeIssues warns about legacy values dropped while reading documents.
func logDecodeIssues(logger *zap.Logger) {
	models.OnDecodeIssue(func(i models.DecodeIssue) {
		logger.Warn("dropped unreadable stored value",
			zap.String("field", i.Field),
			zap.String("raw", i.Raw),
			zap.Error(i.Err))
	})
}

// ensureBootstrapAdmin makes email an admin. An existing profile is
// promoted. Otherwise an identity (Google sign-in only) and an admin
// profile are created.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	ids := identitystore.New(deps.MongoDatabase)
	users := userstore.New(deps.MongoDatabase)

	id, err := ids.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, identitystore.ErrNotFound):
		created, cerr := ids.Create(ctx, email, localPart(email), "")
		if cerr != nil {
			return fmt.Errorf("create identity: %w", cerr)
		}
		id = &created
		logger.Info("bootstrap admin identity created; sign in with Google", zap.String("email", email))
	case err != nil:
		return fmt.Errorf("look up identity: %w", err)
	}

	profile, err := users.Find(ctx, id.ID)
	if err != nil {
		return fmt.Errorf("look up profile: %w", err)
	}
	if profile == nil {
		if _, err := users.Create(ctx, models.User{
			ID:    id.ID,
			Role:  models.RoleAdmin,
			Name:  id.DisplayName,
			Email: email,
		}); err != nil {
			return fmt.Errorf("create admin profile: %w", err)
		}
		logger.Info("bootstrap admin profile created", zap.String("email", email))
		recordBootstrap(ctx, deps, id.ID, email, "created", logger)
		return nil
	}
	if profile.Role == models.RoleAdmin {
		return nil
	}
	if err := users.Promote(ctx, id.ID); err != nil {
		return fmt.Errorf("promote profile: %w", err)
	}
	logger.Info("bootstrap admin promoted", zap.String("email", email), zap.String("previous_role", profile.Role))
	recordBootstrap(ctx, deps, id.ID, email, "promoted", logger)
	return nil
}

// recordBootstrap writes the admin change to the audit trail. There is no
// request at startup, so IP is left blank.
func recordBootstrap(ctx context.Context, deps DBDeps, userID primitive.ObjectID, email, action string, logger *zap.Logger) {
	err := audit.New(deps.MongoDatabase).Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrapped,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email, "action": action},
	})
	if err != nil {
		logger.Warn("bootstrap admin audit failed", zap.Error(err))
	}
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
