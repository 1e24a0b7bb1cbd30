// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user with a bcrypt-hashed password.
func (f *Fixtures) CreateUser(ctx context.Context, username, email, password, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateActivity creates a published activity starting 48 hours from now
// with the given capacity, organized by organizer.
func (f *Fixtures) CreateActivity(ctx context.Context, title string, organizer primitive.ObjectID, maxParticipants int) models.Activity {
	f.t.Helper()

	now := time.Now().UTC()
	activity := models.Activity{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Description:     "A test activity",
		Category:        "basketball",
		Location:        "Test Gym",
		StartTime:       now.Add(48 * time.Hour),
		EndTime:         now.Add(50 * time.Hour),
		MaxParticipants: maxParticipants,
		Price:           25,
		Images:          []string{},
		Organizer:       organizer,
		Participants:    []primitive.ObjectID{},
		Status:          models.ActivityPublished,
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("activities").InsertOne(ctx, activity); err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}
	return activity
}

// CreateActivityAt creates a published activity with an explicit start
// time, for tests that exercise time-window rules.
func (f *Fixtures) CreateActivityAt(ctx context.Context, title string, organizer primitive.ObjectID, start time.Time) models.Activity {
	f.t.Helper()

	now := time.Now().UTC()
	activity := models.Activity{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Description:     "A test activity",
		Category:        "soccer",
		Location:        "Test Field",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		MaxParticipants: 10,
		Price:           25,
		Images:          []string{},
		Organizer:       organizer,
		Participants:    []primitive.ObjectID{},
		Status:          models.ActivityPublished,
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("activities").InsertOne(ctx, activity); err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}
	return activity
}

// CreateOrder creates an order in the given status for the (user,
// activity) pair. Paid orders get a payment method and time.
func (f *Fixtures) CreateOrder(ctx context.Context, user, activity primitive.ObjectID, amount float64, status string) models.Order {
	f.t.Helper()

	now := time.Now().UTC()
	order := models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "UMTEST" + primitive.NewObjectID().Hex(),
		User:        user,
		Activity:    activity,
		Amount:      amount,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.OrderPaid {
		order.PaymentMethod = "wechat"
		order.PaymentTime = &now
	}

	if _, err := f.db.Collection("orders").InsertOne(ctx, order); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return order
}

// CreateComment creates a comment by user on activity.
func (f *Fixtures) CreateComment(ctx context.Context, user, activity primitive.ObjectID, content string, rating int) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      user,
		Activity:  activity,
		Content:   content,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, comment); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}
