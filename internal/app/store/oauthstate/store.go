// internal/app/store/oauthstate/store.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalid means the state is unknown, already used, or expired.
var ErrInvalid = errors.New("oauth state invalid or expired")

// Pending is one sign-in waiting for Google's callback. Verifier is the
// PKCE code verifier sent back with the token exchange. The TTL index on
// expires_at removes abandoned rows.
type Pending struct {
	State     string    `bson:"state"`
	Verifier  string    `bson:"verifier"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store keeps pending sign-ins in the oauth_states collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Save records p. CreatedAt is stamped here.
func (s *Store) Save(ctx context.Context, p Pending) error {
	p.ExpiresAt = p.ExpiresAt.UTC()
	p.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, p)
	return err
}

// Consume removes and returns the pending sign-in for state, so each state
// is accepted once. Unknown and expired states yield ErrInvalid.
func (s *Store) Consume(ctx context.Context, state string) (Pending, error) {
	var p Pending
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Pending{}, ErrInvalid
	}
	return p, err
}

// CleanupExpired deletes expired rows and reports how many went. The TTL
// monitor only runs about once a minute, so the cleanup worker calls this
// too.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
