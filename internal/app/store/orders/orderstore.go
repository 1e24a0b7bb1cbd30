// internal/app/store/orders/orderstore.go
package orderstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unimove/unimove/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound means no order exists for the given ID.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateLive means the user already holds a pending or paid
	// order for this activity (backed by the partial unique index).
	ErrDuplicateLive = errors.New("user already has a live order for this activity")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("orders")}
}

// NewOrderNumber produces a unique human-readable order number:
// "UM" + unix millis + 6 uppercase alphanumerics.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("UM%d%s", now.UnixMilli(), suffix)
}

// GetByID loads an order. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// HasLiveOrder reports whether uid already holds a pending or paid order
// for the activity.
func (s *Store) HasLiveOrder(ctx context.Context, uid, activityID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user":     uid,
		"activity": activityID,
		"status":   bson.M{"$in": bson.A{models.OrderPending, models.OrderPaid}},
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// HasPaidOrder reports whether uid holds a paid order for the activity.
func (s *Store) HasPaidOrder(ctx context.Context, uid, activityID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user":     uid,
		"activity": activityID,
		"status":   models.OrderPaid,
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a new order, assigning ID, order number, and timestamps.
// The partial unique index turns a concurrent duplicate into
// ErrDuplicateLive.
func (s *Store) Create(ctx context.Context, o models.Order) (models.Order, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber(now)
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Order{}, ErrDuplicateLive
		}
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// Delete removes an order outright. Only used to roll back a failed
// creation; orders are otherwise never hard-deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// MarkPaid transitions a pending order to paid, stamping the payment
// method and time. Returns ErrNotFound if the order is no longer pending
// (the status guard keeps two concurrent pays from both succeeding).
func (s *Store) MarkPaid(ctx context.Context, id primitive.ObjectID, method string) (*models.Order, error) {
	now := time.Now().UTC()
	var o models.Order
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.OrderPending},
		bson.M{"$set": bson.M{
			"status":         models.OrderPaid,
			"payment_method": method,
			"payment_time":   now,
			"updated_at":     now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkCancelled transitions a pending order to cancelled with a reason.
func (s *Store) MarkCancelled(ctx context.Context, id primitive.ObjectID, reason string) (*models.Order, error) {
	now := time.Now().UTC()
	var o models.Order
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.OrderPending},
		bson.M{"$set": bson.M{
			"status":        models.OrderCancelled,
			"cancel_reason": reason,
			"updated_at":    now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkRefunded transitions a paid order to refunded, recording the full
// refund.
func (s *Store) MarkRefunded(ctx context.Context, id primitive.ObjectID, reason string) (*models.Order, error) {
	now := time.Now().UTC()

	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var o models.Order
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.OrderPaid},
		bson.M{"$set": bson.M{
			"status":        models.OrderRefunded,
			"cancel_reason": reason,
			"refund_amount": cur.Amount,
			"refund_time":   now,
			"updated_at":    now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListByUser returns one page of uid's orders, newest first, optionally
// narrowed by status.
func (s *Store) ListByUser(ctx context.Context, uid primitive.ObjectID, status string, skip, limit int64) ([]models.Order, int64, error) {
	q := bson.M{"user": uid}
	if status != "" {
		q["status"] = status
	}
	return s.find(ctx, q, skip, limit)
}

// ListByActivity returns one page of an activity's orders, newest first,
// optionally narrowed by status.
func (s *Store) ListByActivity(ctx context.Context, activityID primitive.ObjectID, status string, skip, limit int64) ([]models.Order, int64, error) {
	q := bson.M{"activity": activityID}
	if status != "" {
		q["status"] = status
	}
	return s.find(ctx, q, skip, limit)
}

func (s *Store) find(ctx context.Context, q bson.M, skip, limit int64) ([]models.Order, int64, error) {
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Order, 0, limit)
	for cur.Next(ctx) {
		var o models.Order
		if err := cur.Decode(&o); err != nil {
			return nil, 0, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, o)
	}
	return out, total, cur.Err()
}
