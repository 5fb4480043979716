package volunteerappstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/dalemusser/campushub/internal/app/system/volunteering"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no application matches.
var ErrNotFound = errors.New("volunteer application not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("volunteer_applications")}
}

// Source is the change subscription for live application feeds.
func (s *Store) Source() live.CollectionSource {
	return live.CollectionSource{Coll: s.c}
}

// Create inserts a pending application. Eligibility is checked by the
// caller with volunteering.CheckApply.
func (s *Store) Create(ctx context.Context, app models.VolunteerApplication) (models.VolunteerApplication, error) {
	app.ID = primitive.NewObjectID()
	app.Status = string(volunteering.StatusPending)
	app.CreatedAt = time.Now().UTC()
	app.ReviewedAt = nil
	if _, err := s.c.InsertOne(ctx, app); err != nil {
		return models.VolunteerApplication{}, fmt.Errorf("insert application: %w", err)
	}
	return app, nil
}

// GetByID loads one application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.VolunteerApplication, error) {
	var app models.VolunteerApplication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.VolunteerApplication{}, ErrNotFound
		}
		return models.VolunteerApplication{}, err
	}
	return app, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.VolunteerApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.VolunteerApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns an applicant's applications, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.VolunteerApplication, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ListByEvent returns an event's applications, newest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.VolunteerApplication, error) {
	return s.find(ctx, bson.M{"event_id": eventID})
}

// ListAll returns every application, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.VolunteerApplication, error) {
	return s.find(ctx, bson.M{})
}

// Review loads the application, checks the transition and writes the
// decision with a fresh reviewed_at. Concurrent reviews are last-write-wins.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, decision volunteering.Status) (models.VolunteerApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return models.VolunteerApplication{}, err
	}
	if err := volunteering.Review(volunteering.StoredStatus(app.Status), decision); err != nil {
		return app, err
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      string(decision),
		"reviewed_at": now,
	}})
	if err != nil {
		return app, fmt.Errorf("review application: %w", err)
	}
	if res.MatchedCount == 0 {
		return app, ErrNotFound
	}
	app.Status = string(decision)
	app.ReviewedAt = &now
	return app, nil
}
