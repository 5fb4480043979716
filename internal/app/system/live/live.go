// Package live turns a collection subscription into a sequence of whole
// snapshots. A Feed loads the collection once, then reloads it after every
// change notification until its context ends.
//
// Feeds never retry. A failed watch or load ends the feed with a
// *SubscriptionError and the consumer keeps whatever it last received.
package live

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Stream is a change notification cursor. *mongo.ChangeStream satisfies it.
type Stream interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// Source opens a Stream.
type Source interface {
	Watch(ctx context.Context) (Stream, error)
}

// Loader reads the current snapshot.
type Loader[T any] func(ctx context.Context) ([]T, error)

// ErrStreamClosed is reported when the server closes the stream while the
// consumer is still listening.
var ErrStreamClosed = errors.New("change stream closed")

// SubscriptionError ends a Feed.
type SubscriptionError struct {
	Feed string
	Op   string // "watch" | "load" | "stream"
	Err  error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("live feed %s: %s: %v", e.Feed, e.Op, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

// Feed delivers snapshots of one collection.
type Feed[T any] struct {
	Name   string
	Source Source
	Load   Loader[T]
	Log    *zap.Logger
}

// Run emits the initial snapshot and then a fresh snapshot per change.
// It returns nil when ctx ends and a *SubscriptionError on failure.
//
// The stream is opened before the first load so no change between the two
// is missed.
func (f Feed[T]) Run(ctx context.Context, emit func([]T)) error {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("feed", f.Name), zap.String("subscriber", uuid.NewString()))

	stream, err := f.Source.Watch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return &SubscriptionError{Feed: f.Name, Op: "watch", Err: err}
	}
	defer func() {
		// ctx may already be done here.
		_ = stream.Close(context.WithoutCancel(ctx))
	}()
	log.Debug("live feed started")

	if err := f.push(ctx, emit); err != nil {
		return f.stop(ctx, "load", err)
	}

	for stream.Next(ctx) {
		if err := f.push(ctx, emit); err != nil {
			return f.stop(ctx, "load", err)
		}
	}

	if ctx.Err() != nil {
		log.Debug("live feed stopped")
		return nil
	}
	if err := stream.Err(); err != nil {
		return f.stop(ctx, "stream", err)
	}
	return f.stop(ctx, "stream", ErrStreamClosed)
}

func (f Feed[T]) push(ctx context.Context, emit func([]T)) error {
	items, err := f.Load(ctx)
	if err != nil {
		return err
	}
	emit(items)
	return nil
}

func (f Feed[T]) stop(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return &SubscriptionError{Feed: f.Name, Op: op, Err: err}
}

// CollectionSource watches a Mongo collection with an optional pipeline.
type CollectionSource struct {
	Coll     *mongo.Collection
	Pipeline mongo.Pipeline
}

// Watch opens a change stream on the collection.
func (s CollectionSource) Watch(ctx context.Context) (Stream, error) {
	pipeline := s.Pipeline
	if pipeline == nil {
		pipeline = mongo.Pipeline{}
	}
	cs, err := s.Coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return cs, nil
}
