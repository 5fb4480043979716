package userstore

import (
	"context"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/rolerepair"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh profile data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a profile by ID and returns nil if it is not found or
// any error occurs. A profile deleted mid-session therefore signs the user out.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":              1,
		"role":             1,
		"name":             1,
		"fname":            1,
		"email":            1,
		"branch":           1,
		"semester":         1,
		"photo":            1,
		"theme_preference": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}

	role := normalize.Role(u.Role)
	if role == "" {
		role = models.RoleStudent
	}
	return &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.DisplayName(rolerepair.LocalPart(u.Email)),
		Email:    u.Email,
		Role:     role,
		Branch:   u.Branch,
		Semester: u.Semester,
		Photo:    u.Photo,
		Theme:    u.ThemePreference,
	}
}
