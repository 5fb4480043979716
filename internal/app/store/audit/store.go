// internal/app/store/audit/store.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultLimit caps Find when the filter sets no limit.
const defaultLimit = 100

// Filter selects audit events. Empty fields do not constrain. The time
// window is half-open: From <= timestamp < Before.
type Filter struct {
	Category  string
	EventType string
	UserID    *primitive.ObjectID
	From      time.Time
	Before    time.Time
	Limit     int64
	Offset    int64
}

func (f Filter) bson() bson.M {
	m := bson.M{}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.EventType != "" {
		m["event_type"] = f.EventType
	}
	if f.UserID != nil {
		m["user_id"] = *f.UserID
	}
	window := bson.M{}
	if !f.From.IsZero() {
		window["$gte"] = f.From.UTC()
	}
	if !f.Before.IsZero() {
		window["$lt"] = f.Before.UTC()
	}
	if len(window) > 0 {
		m["timestamp"] = window
	}
	return m
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts ev, stamping the id and time when unset.
func (s *Store) Log(ctx context.Context, ev Event) error {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("insert audit event %s: %w", ev.EventType, err)
	}
	return nil
}

// Find returns matching events newest first.
func (s *Store) Find(ctx context.Context, f Filter) ([]Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Offset).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, f.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count reports how many events match, ignoring Limit and Offset.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}

// ForUser returns the most recent events about userID.
func (s *Store) ForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Find(ctx, Filter{UserID: &userID, Limit: limit})
}
