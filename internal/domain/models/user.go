// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a profile can hold.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is the portal profile for an identity. Its _id is the identity's _id.
//
// NOTE:
//   - Role may be absent in older documents; login repairs it to "student".
//   - FName is the legacy name field. Name wins when both are present.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role            string             `bson:"role,omitempty" json:"role,omitempty"` // student | admin
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	NameCI          string             `bson:"name_ci,omitempty" json:"-"` // folded Name for sorting
	FName           string             `bson:"fname,omitempty" json:"fname,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Branch          string             `bson:"branch,omitempty" json:"branch,omitempty"`
	Semester        int                `bson:"semester,omitempty" json:"semester,omitempty"`
	Photo           string             `bson:"photo,omitempty" json:"photo,omitempty"`
	ThemePreference string             `bson:"theme_preference,omitempty" json:"theme_preference,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DisplayName returns Name, then FName, then fallback.
func (u User) DisplayName(fallback string) string {
	if u.Name != "" {
		return u.Name
	}
	if u.FName != "" {
		return u.FName
	}
	return fallback
}
