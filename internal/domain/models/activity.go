// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity statuses.
const (
	ActivityDraft     = "draft"
	ActivityPublished = "published"
	ActivityCancelled = "cancelled"
	ActivityCompleted = "completed"
)

// Categories is the closed set of sport types an activity may carry.
var Categories = []string{
	"basketball", "soccer", "badminton", "table-tennis", "tennis",
	"swimming", "fitness", "running", "other",
}

// Activity is a schedulable sports event with capacity and price.
//
// NOTE:
//   - participants and current_participants always move together: the
//     activity store is the only writer, and every participation change
//     is a single conditional update touching both fields.
type Activity struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title               string               `bson:"title" json:"title"`
	Description         string               `bson:"description" json:"description"`
	Category            string               `bson:"category" json:"category"`
	Location            string               `bson:"location" json:"location"`
	StartTime           time.Time            `bson:"start_time" json:"startTime"`
	EndTime             time.Time            `bson:"end_time" json:"endTime"`
	MaxParticipants     int                  `bson:"max_participants" json:"maxParticipants"`
	CurrentParticipants int                  `bson:"current_participants" json:"currentParticipants"`
	Price               float64              `bson:"price" json:"price"`
	Images              []string             `bson:"images" json:"images"`
	Organizer           primitive.ObjectID   `bson:"organizer" json:"organizer"`
	Participants        []primitive.ObjectID `bson:"participants" json:"participants"`
	Status              string               `bson:"status" json:"status"`
	Tags                []string             `bson:"tags" json:"tags"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ActivitySummary is the trimmed projection embedded in order and comment
// responses.
type ActivitySummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Location  string             `bson:"location" json:"location"`
	StartTime time.Time          `bson:"start_time" json:"startTime"`
	EndTime   time.Time          `bson:"end_time" json:"endTime"`
	Price     float64            `bson:"price" json:"price"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
}

// Summary returns the embeddable projection of a.
func (a Activity) Summary() ActivitySummary {
	return ActivitySummary{
		ID:        a.ID,
		Title:     a.Title,
		Location:  a.Location,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Price:     a.Price,
		Images:    a.Images,
	}
}

// HasParticipant reports whether uid is on the participants list.
func (a Activity) HasParticipant(uid primitive.ObjectID) bool {
	for _, p := range a.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// IsValidCategory reports whether c is one of the closed category set.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// IsValidActivityStatus reports whether s is a known activity status.
func IsValidActivityStatus(s string) bool {
	switch s {
	case ActivityDraft, ActivityPublished, ActivityCancelled, ActivityCompleted:
		return true
	}
	return false
}
