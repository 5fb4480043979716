// internal/app/features/authgoogle/account.go
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// account is the subset of Google's userinfo response we use.
type account struct {
	Subject  string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified_email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

func (h *Handler) fetchAccount(ctx context.Context, tok *oauth2.Token) (*account, error) {
	resp, err := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok)).Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var a account
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if a.Subject == "" || a.Email == "" {
		return nil, errors.New("userinfo missing id or email")
	}
	a.Email = normalize.Email(a.Email)
	return &a, nil
}

// resolveIdentity finds the identity for a Google account: first by linked
// subject, then by verified email, linking the subject on that first match.
func (h *Handler) resolveIdentity(ctx context.Context, a *account) (*models.Identity, error) {
	id, err := h.Identities.GetByGoogleID(ctx, a.Subject)
	if !errors.Is(err, identitystore.ErrNotFound) {
		return id, err
	}
	if !a.Verified {
		return nil, identitystore.ErrNotFound
	}

	id, err = h.Identities.GetByEmail(ctx, a.Email)
	if err != nil {
		return nil, err
	}
	if err := h.Identities.LinkGoogle(ctx, id.ID, a.Subject); err != nil {
		h.Log.Warn("link Google subject failed", zap.Error(err), zap.String("user_id", id.ID.Hex()))
	}
	return id, nil
}

// syncProfile copies Google's name, email and photo onto the identity and
// profile. The role is never touched. Failures do not block sign-in.
func (h *Handler) syncProfile(ctx context.Context, id primitive.ObjectID, a *account) {
	if err := h.Identities.UpdateProfileInfo(ctx, id, a.Name, a.Picture); err != nil {
		h.Log.Warn("update identity from Google failed", zap.Error(err), zap.String("user_id", id.Hex()))
	}
	err := h.Users.RefreshFromGoogle(ctx, id, a.Name, a.Email, a.Picture)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Warn("refresh profile from Google failed", zap.Error(err), zap.String("user_id", id.Hex()))
	}
}
