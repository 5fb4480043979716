package eventstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no event matches.
var ErrNotFound = errors.New("event not found")

// ErrNoRoles is returned when volunteering is enabled without any role.
var ErrNoRoles = errors.New("volunteering needs at least one role")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Source is the change subscription for live event feeds.
func (s *Store) Source() live.CollectionSource {
	return live.CollectionSource{Coll: s.c}
}

// Create normalizes and inserts ev. Branches are uppercased and deduped,
// semesters deduped and sorted, and volunteer roles dropped unless
// volunteering is enabled.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	ev.ID = primitive.NewObjectID()
	ev.Title = normalize.Name(ev.Title)
	ev.Venue = normalize.Name(ev.Venue)
	ev.Category = normalize.Name(ev.Category)
	ev.Branches = normalize.Branches(ev.Branches)
	ev.Semesters = uniqueSemesters(ev.Semesters)
	// Stored datetimes keep millisecond precision.
	ev.Date = models.At(ev.Date.Time.Truncate(time.Millisecond))
	if ev.EnableVolunteers {
		roles := make([]string, 0, len(ev.VolunteerRoles))
		seen := map[string]struct{}{}
		for _, r := range ev.VolunteerRoles {
			r = normalize.Name(r)
			if _, dup := seen[r]; r == "" || dup {
				continue
			}
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
		if len(roles) == 0 {
			return models.Event{}, ErrNoRoles
		}
		ev.VolunteerRoles = roles
	} else {
		ev.VolunteerRoles = []string{}
	}
	ev.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

func uniqueSemesters(in models.Semesters) models.Semesters {
	out := models.Semesters{}
	seen := map[int]struct{}{}
	for _, n := range in {
		if _, dup := seen[n]; dup || n <= 0 {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// GetByID loads one event.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound
		}
		return models.Event{}, err
	}
	return ev, nil
}

// Delete removes an event. Registrations and applications are left in place.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("delete event: %w", err)
	}
	return ev, nil
}

// List returns every event by date ascending. Callers partition by now.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
