// Package identitystore holds sign-in principals: email plus a bcrypt
// password hash and/or a linked Google subject. Profiles live in userstore
// under the same _id.
package identitystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when an identity with the email already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrNotFound is returned when no identity matches.
	ErrNotFound = errors.New("identity not found")
	// ErrBadPassword is returned by Authenticate for a wrong or absent password.
	ErrBadPassword = errors.New("password does not match")
)

// Cost is the bcrypt cost for new hashes. Tests lower it.
var Cost = bcrypt.DefaultCost

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities")}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Identity, error) {
	var id models.Identity
	if err := s.c.FindOne(ctx, filter).Decode(&id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

// GetByEmail looks up an identity by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByGoogleID looks up an identity by its linked Google subject.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.Identity, error) {
	return s.findOne(ctx, bson.M{"google_id": googleID})
}

// Create inserts an identity with a hash of password. An empty password
// creates an identity that can only sign in with Google.
func (s *Store) Create(ctx context.Context, email, displayName, password string) (models.Identity, error) {
	now := time.Now().UTC()
	id := models.Identity{
		ID:          primitive.NewObjectID(),
		Email:       normalize.Email(email),
		DisplayName: normalize.Name(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
		if err != nil {
			return models.Identity{}, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		id.PasswordHash = &h
	}
	if _, err := s.c.InsertOne(ctx, id); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Identity{}, ErrDuplicateEmail
		}
		return models.Identity{}, fmt.Errorf("insert identity: %w", err)
	}
	return id, nil
}

// Delete removes an identity. Used to roll back a failed registration.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Authenticate checks email and password. It returns ErrNotFound for an
// unknown email and ErrBadPassword when the hash does not match.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	id, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if id.PasswordHash == nil {
		return id, ErrBadPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(*id.PasswordHash), []byte(password)) != nil {
		return id, ErrBadPassword
	}
	return id, nil
}

// LinkGoogle attaches a Google subject to an identity.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now().UTC(),
	}})
	if wafflemongo.IsDup(err) {
		return fmt.Errorf("google account already linked: %w", ErrDuplicateEmail)
	}
	return err
}

// UpdateProfileInfo stores the provider's display name and photo.
func (s *Store) UpdateProfileInfo(ctx context.Context, id primitive.ObjectID, displayName, photoURL string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"display_name": normalize.Name(displayName),
		"photo_url":    photoURL,
		"updated_at":   time.Now().UTC(),
	}})
	return err
}
