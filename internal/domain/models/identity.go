// internal/domain/models/identity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is a sign-in principal. Profiles (User) reference it by _id and
// never modify it.
type Identity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // normalized lowercase
	DisplayName  string             `bson:"display_name,omitempty" json:"display_name,omitempty"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PasswordHash *string            `bson:"password_hash,omitempty" json:"-"`
	GoogleID     *string            `bson:"google_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
