// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration records that a student signed up for an event.
// One document per (event_id, user_id).
type Registration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID      primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName     string             `bson:"user_name" json:"user_name"`
	Email        string             `bson:"email" json:"email"`
	EventTitle   string             `bson:"event_title" json:"event_title"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
}
