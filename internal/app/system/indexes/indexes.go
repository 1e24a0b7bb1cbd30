// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db, logger); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureActivities(ctx, db, logger); err != nil {
		problems = append(problems, "activities: "+err.Error())
	}
	if err := ensureOrders(ctx, db, logger); err != nil {
		problems = append(problems, "orders: "+err.Error())
	}
	if err := ensureComments(ctx, db, logger); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, logger *zap.Logger, coll *mongo.Collection, specs []mongo.IndexModel) error {
	for _, m := range specs {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// An identical index may already exist under another name
			// (e.g. hand-created in an older deployment); that is fine.
			if strings.Contains(err.Error(), "IndexOptionsConflict") ||
				strings.Contains(err.Error(), "already exists") {
				logger.Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
		}
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, logger, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_username_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_unique"),
		},
	})
}

func ensureActivities(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, logger, db.Collection("activities"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("activities_category_start"),
		},
		{
			Keys:    bson.D{{Key: "organizer", Value: 1}},
			Options: options.Index().SetName("activities_organizer"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("activities_status_start"),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}},
			Options: options.Index().SetName("activities_participants"),
		},
	})
}

func ensureOrders(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, logger, db.Collection("orders"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("orders_number_unique"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("orders_user_created"),
		},
		{
			Keys:    bson.D{{Key: "activity", Value: 1}},
			Options: options.Index().SetName("orders_activity"),
		},
		{
			// At most one live (pending or paid) order per user per
			// activity, enforced by the database even under concurrent
			// creates.
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "activity", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("orders_live_unique").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.OrderPending, models.OrderPaid}},
				}),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, logger, db.Collection("comments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "activity", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("comments_user_activity_unique"),
		},
		{
			Keys:    bson.D{{Key: "activity", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("comments_activity_created"),
		},
	})
}
