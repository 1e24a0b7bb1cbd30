// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/unimove/unimove/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound means no comment exists for the given ID.
	ErrNotFound = errors.New("comment not found")
	// ErrDuplicate means the user has already commented on this activity
	// (backed by the unique index on user+activity).
	ErrDuplicate = errors.New("user already commented on this activity")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// GetByID loads a comment. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var cm models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// ExistsForUser reports whether uid already commented on the activity.
func (s *Store) ExistsForUser(ctx context.Context, uid, activityID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user": uid, "activity": activityID}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a new comment. The unique index turns a concurrent
// duplicate into ErrDuplicate.
func (s *Store) Create(ctx context.Context, cm models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	cm.ID = primitive.NewObjectID()
	cm.CreatedAt = now
	cm.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cm); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Comment{}, ErrDuplicate
		}
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return cm, nil
}

// Update holds the optional fields an author may change within the edit
// window. Nil fields are left untouched.
type Update struct {
	Content *string
	Rating  *int
	Images  *[]string
}

// Apply performs a partial update and returns the updated comment.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Comment, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}

	var cm models.Comment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// Delete removes a comment. Returns ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByActivity returns one page of an activity's comments, newest
// first, optionally narrowed to a single rating.
func (s *Store) ListByActivity(ctx context.Context, activityID primitive.ObjectID, rating int, skip, limit int64) ([]models.Comment, int64, error) {
	q := bson.M{"activity": activityID}
	if rating > 0 {
		q["rating"] = rating
	}
	return s.find(ctx, q, skip, limit)
}

// ListByUser returns one page of uid's comments, newest first.
func (s *Store) ListByUser(ctx context.Context, uid primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	return s.find(ctx, bson.M{"user": uid}, skip, limit)
}

func (s *Store) find(ctx context.Context, q bson.M, skip, limit int64) ([]models.Comment, int64, error) {
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Comment, 0, limit)
	for cur.Next(ctx) {
		var cm models.Comment
		if err := cur.Decode(&cm); err != nil {
			return nil, 0, fmt.Errorf("decode comment: %w", err)
		}
		out = append(out, cm)
	}
	return out, total, cur.Err()
}

// Statistics summarizes all ratings for one activity.
type Statistics struct {
	AverageRating      float64 `json:"averageRating"` // rounded to 1 decimal
	TotalComments      int64   `json:"totalComments"`
	RatingDistribution [5]int  `json:"ratingDistribution"` // counts for 1..5 stars
}

// Stats aggregates the rating statistics over every comment of the
// activity, independent of the page being served.
func (s *Store) Stats(ctx context.Context, activityID primitive.ObjectID) (Statistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"activity": activityID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$rating",
			"count":   bson.M{"$sum": 1},
			"ratings": bson.M{"$sum": "$rating"},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Statistics{}, fmt.Errorf("aggregate comment stats: %w", err)
	}
	defer cur.Close(ctx)

	var stats Statistics
	var ratingSum int64
	for cur.Next(ctx) {
		var row struct {
			Rating  int   `bson:"_id"`
			Count   int64 `bson:"count"`
			Ratings int64 `bson:"ratings"`
		}
		if err := cur.Decode(&row); err != nil {
			return Statistics{}, fmt.Errorf("decode stats row: %w", err)
		}
		if row.Rating >= 1 && row.Rating <= 5 {
			stats.RatingDistribution[row.Rating-1] = int(row.Count)
		}
		stats.TotalComments += row.Count
		ratingSum += row.Ratings
	}
	if err := cur.Err(); err != nil {
		return Statistics{}, err
	}

	if stats.TotalComments > 0 {
		avg := float64(ratingSum) / float64(stats.TotalComments)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}
