// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a post-participation rating and review tied to exactly one
// (user, activity) pair; the unique index on that pair enforces the
// one-comment-per-user rule.
type Comment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Activity primitive.ObjectID `bson:"activity" json:"activity"`
	Content  string             `bson:"content" json:"content"`
	Rating   int                `bson:"rating" json:"rating"` // 1..5
	Images   []string           `bson:"images,omitempty" json:"images,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CommentEditWindow is how long after creation the author may still edit.
const CommentEditWindow = 24 * time.Hour

// Editable reports whether the comment may still be edited at now.
func (c Comment) Editable(now time.Time) bool {
	return now.Sub(c.CreatedAt) <= CommentEditWindow
}
