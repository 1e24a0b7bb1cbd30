// internal/app/store/activities/activitystore.go

// Package activitystore owns the activities collection. It is the only
// writer of the participants/current_participants pair: joins, orders,
// and cancellations all go through Enroll/EnrollIfAbsent/Withdraw, each
// of which is a single conditional update, so the counter can never
// overshoot the cap or drift from the list under concurrent requests.
package activitystore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrCapacityFull means the activity has no free spots.
	ErrCapacityFull = errors.New("activity is full")
	// ErrAlreadyEnrolled means the user is already a participant.
	ErrAlreadyEnrolled = errors.New("user already enrolled in activity")
	// ErrNotEnrolled means the user is not a participant.
	ErrNotEnrolled = errors.New("user not enrolled in activity")
	// ErrNotPublished means the activity is not open for enrollment.
	ErrNotPublished = errors.New("activity is not published")
	// ErrNotFound means no activity exists for the given ID.
	ErrNotFound = errors.New("activity not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// GetByID loads an activity. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var a models.Activity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new activity owned by its organizer.
func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	a.CurrentParticipants = 0
	a.Participants = []primitive.ObjectID{}
	if a.Images == nil {
		a.Images = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Status == "" {
		a.Status = models.ActivityPublished
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return a, nil
}

// Update applies a partial update ($set of the given fields) and returns
// the updated document. The handler validates fields and immutability
// rules before calling.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Activity, error) {
	set["updated_at"] = time.Now().UTC()

	var a models.Activity
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an activity only while nobody has enrolled. Returns
// ErrNotFound if the activity is absent, ErrHasParticipants if the guard
// fails.
var ErrHasParticipants = errors.New("activity has participants")

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "participants": bson.M{"$size": 0}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err // ErrNotFound or a real error
		}
		return ErrHasParticipants
	}
	return nil
}

// Enroll atomically adds uid to a published activity with spare capacity,
// keeping the counter and the participant list in one write. When the
// conditional update matches nothing, a post-check read distinguishes
// the reasons: ErrNotFound, ErrNotPublished, ErrAlreadyEnrolled, or
// ErrCapacityFull.
func (s *Store) Enroll(ctx context.Context, activityID, uid primitive.ObjectID) error {
	filter := bson.M{
		"_id":          activityID,
		"status":       models.ActivityPublished,
		"participants": bson.M{"$ne": uid},
		"$expr":        bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}},
	}
	update := bson.M{
		"$inc":      bson.M{"current_participants": 1},
		"$addToSet": bson.M{"participants": uid},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	a, err := s.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if a.Status != models.ActivityPublished {
		return ErrNotPublished
	}
	if a.HasParticipant(uid) {
		return ErrAlreadyEnrolled
	}
	return ErrCapacityFull
}

// EnrollIfAbsent behaves like Enroll but treats an existing enrollment as
// success. Used by order payment, where the seat may already be held.
func (s *Store) EnrollIfAbsent(ctx context.Context, activityID, uid primitive.ObjectID) error {
	err := s.Enroll(ctx, activityID, uid)
	if errors.Is(err, ErrAlreadyEnrolled) {
		return nil
	}
	return err
}

// Withdraw atomically removes uid from the participants list and
// decrements the counter. The membership guard in the filter makes the
// call idempotent-safe: a double withdraw cannot drive the counter
// negative.
func (s *Store) Withdraw(ctx context.Context, activityID, uid primitive.ObjectID) error {
	filter := bson.M{
		"_id":          activityID,
		"participants": uid,
	}
	update := bson.M{
		"$inc":  bson.M{"current_participants": -1},
		"$pull": bson.M{"participants": uid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetByID(ctx, activityID); err != nil {
			return err
		}
		return ErrNotEnrolled
	}
	return nil
}

// ListFilter narrows the public activity listing. Zero values mean "no
// constraint".
type ListFilter struct {
	Category  string
	Location  string // substring, case-insensitive
	Search    string // matches title/description/category/location
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // one of sortFields keys, default created_at
	SortDesc  bool
}

// sortFields maps API sort names to document fields.
var sortFields = map[string]string{
	"createdAt":           "created_at",
	"startTime":           "start_time",
	"price":               "price",
	"currentParticipants": "current_participants",
}

// SortField resolves an API sort name, falling back to created_at.
func SortField(apiName string) string {
	if f, ok := sortFields[apiName]; ok {
		return f
	}
	return "created_at"
}

func (f ListFilter) query() bson.M {
	q := bson.M{"status": models.ActivityPublished}

	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Location != "" {
		q["location"] = bson.M{"$regex": regexp.QuoteMeta(f.Location), "$options": "i"}
	}
	if f.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"category": re},
			bson.M{"location": re},
		}
	}
	if f.StartDate != nil || f.EndDate != nil {
		rng := bson.M{}
		if f.StartDate != nil {
			rng["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			rng["$lte"] = *f.EndDate
		}
		q["start_time"] = rng
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rng := bson.M{}
		if f.MinPrice != nil {
			rng["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rng["$lte"] = *f.MaxPrice
		}
		q["price"] = rng
	}
	return q
}

// List returns one page of published activities matching the filter,
// plus the total match count.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Activity, int64, error) {
	q := f.query()

	dir := 1
	if f.SortDesc {
		dir = -1
	}
	sort := bson.D{{Key: SortField(f.SortBy), Value: dir}}

	return s.find(ctx, q, sort, skip, limit)
}

// ListByOrganizer returns one page of activities created by uid, newest
// first, optionally narrowed by status.
func (s *Store) ListByOrganizer(ctx context.Context, uid primitive.ObjectID, status string, skip, limit int64) ([]models.Activity, int64, error) {
	q := bson.M{"organizer": uid}
	if status != "" {
		q["status"] = status
	}
	return s.find(ctx, q, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

// ListByParticipant returns one page of activities uid has joined,
// soonest first.
func (s *Store) ListByParticipant(ctx context.Context, uid primitive.ObjectID, skip, limit int64) ([]models.Activity, int64, error) {
	q := bson.M{"participants": uid}
	return s.find(ctx, q, bson.D{{Key: "start_time", Value: 1}}, skip, limit)
}

func (s *Store) find(ctx context.Context, q bson.M, sort bson.D, skip, limit int64) ([]models.Activity, int64, error) {
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Activity, 0, limit)
	for cur.Next(ctx) {
		var a models.Activity
		if err := cur.Decode(&a); err != nil {
			return nil, 0, fmt.Errorf("decode activity: %w", err)
		}
		out = append(out, a)
	}
	return out, total, cur.Err()
}

// Summaries loads the embeddable projections for a set of activity IDs,
// keyed by ID. Missing IDs are simply absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ActivitySummary, error) {
	out := make(map[primitive.ObjectID]models.ActivitySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{
			"title": 1, "location": 1, "start_time": 1,
			"end_time": 1, "price": 1, "images": 1,
		}))
	if err != nil {
		return nil, fmt.Errorf("load activity summaries: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var sum models.ActivitySummary
		if err := cur.Decode(&sum); err != nil {
			return nil, fmt.Errorf("decode activity summary: %w", err)
		}
		out[sum.ID] = sum
	}
	return out, cur.Err()
}
