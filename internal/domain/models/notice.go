// internal/domain/models/notice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is an admin-authored announcement. Empty target sets are global.
type Notice struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Content         string             `bson:"content" json:"content"` // markdown
	TargetBranches  []string           `bson:"target_branches" json:"target_branches"`
	TargetSemesters Semesters          `bson:"target_semesters" json:"target_semesters"`
	AuthorName      string             `bson:"author_name" json:"author_name"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
