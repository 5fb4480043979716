package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/preferences"
	"github.com/dalemusser/campushub/internal/app/system/rolerepair"
	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateProfile is returned when a profile already exists for the identity.
	ErrDuplicateProfile = errors.New("a profile for this account already exists")
	errBadRole          = errors.New(`role must be "admin"|"student"`)
	errBadSemester      = fmt.Errorf("semester must be between 0 and %d", models.MaxSemester)
	errRepairField      = errors.New("only role and fname can be repaired")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a profile by its identity id. Returns mongo.ErrNoDocuments
// if the identity has no profile.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Find is GetByID with a missing profile reported as (nil, nil).
func (s *Store) Find(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return u, err
}

// Create inserts a profile after normalizing fields. u.ID must be the
// identity's id; a zero ID gets a fresh one.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Branch = normalize.Branch(u.Branch)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	if u.Role != models.RoleStudent && u.Role != models.RoleAdmin {
		return models.User{}, errBadRole
	}
	if u.Semester < 0 || u.Semester > models.MaxSemester {
		return models.User{}, errBadSemester
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateProfile
		}
		return models.User{}, fmt.Errorf("insert profile: %w", err)
	}
	return u, nil
}

// ApplyCorrections persists the field repairs computed at sign-in.
func (s *Store) ApplyCorrections(ctx context.Context, id primitive.ObjectID, fixes []rolerepair.Correction) error {
	if len(fixes) == 0 {
		return nil
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for _, f := range fixes {
		switch f.Field {
		case "role", "fname":
			set[f.Field] = f.Value
		default:
			return errRepairField
		}
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("repair profile: %w", err)
	}
	return nil
}

// RefreshFromGoogle copies the Google account's name, email and photo onto
// an existing profile. Role, branch and semester are kept.
func (s *Store) RefreshFromGoogle(ctx context.Context, id primitive.ObjectID, name, email, photo string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if n := normalize.Name(name); n != "" {
		set["name"] = n
		set["name_ci"] = text.Fold(n)
	}
	if e := normalize.Email(email); e != "" {
		set["email"] = e
	}
	if photo != "" {
		set["photo"] = photo
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("refresh profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetTheme saves the theme preference on the profile.
func (s *Store) SetTheme(ctx context.Context, id primitive.ObjectID, theme string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"theme_preference": preferences.Normalize(theme),
		"updated_at":       time.Now().UTC(),
	}})
	return err
}

// Promote makes the profile an admin.
func (s *Store) Promote(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       models.RoleAdmin,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("promote profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListByIDs returns the profiles for ids, sorted by name. Missing ids are skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
