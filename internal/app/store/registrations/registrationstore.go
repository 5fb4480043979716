package registrationstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/ledger"
	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateRegistration is returned when the (event, user) pair exists.
// It is the ledger's duplicate sentinel so the ledger can recognise it.
var ErrDuplicateRegistration = ledger.ErrDuplicate

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("registrations")}
}

// Source is the change subscription for live registration feeds.
func (s *Store) Source() live.CollectionSource {
	return live.CollectionSource{Coll: s.c}
}

// Create inserts a registration. It implements ledger.Writer.
func (s *Store) Create(ctx context.Context, reg models.Registration) (models.Registration, error) {
	reg.ID = primitive.NewObjectID()
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Registration{}, ErrDuplicateRegistration
		}
		return models.Registration{}, fmt.Errorf("insert registration: %w", err)
	}
	return reg, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Registration{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a student's registrations, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Registration, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ListByEvent returns an event's registrants in registration order.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Registration, error) {
	return s.find(ctx, bson.M{"event_id": eventID})
}

// ListAll returns every registration.
func (s *Store) ListAll(ctx context.Context) ([]models.Registration, error) {
	return s.find(ctx, bson.M{})
}
