package noticestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no notice matches.
var ErrNotFound = errors.New("notice not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

// Source is the change subscription for live notice feeds.
func (s *Store) Source() live.CollectionSource {
	return live.CollectionSource{Coll: s.c}
}

// Create inserts a notice. Nil target sets are stored as empty (global).
func (s *Store) Create(ctx context.Context, n models.Notice) (models.Notice, error) {
	n.ID = primitive.NewObjectID()
	n.Title = normalize.Name(n.Title)
	n.TargetBranches = normalize.Branches(n.TargetBranches)
	if n.TargetSemesters == nil {
		n.TargetSemesters = models.Semesters{}
	}
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notice{}, fmt.Errorf("insert notice: %w", err)
	}
	return n, nil
}

// GetByID loads one notice.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Notice, error) {
	var n models.Notice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notice{}, ErrNotFound
		}
		return models.Notice{}, err
	}
	return n, nil
}

// Update replaces title and content and stamps updated_at. Targets and
// authorship are unchanged.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, content string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":      normalize.Name(title),
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notice.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all notices, newest first.
func (s *Store) List(ctx context.Context) ([]models.Notice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
