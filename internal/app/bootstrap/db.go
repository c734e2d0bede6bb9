// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by all stores.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		CoachHubMongoClient:   client,
		CoachHubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the buddy core depends on.
//
// The unique partial index on chat_rooms.pairing_id is load-bearing: it is
// what makes "at most one chat room per pairing" hold even when two callers
// race on first access.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.CoachHubMongoDatabase

	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{Keys: bson.D{{Key: "name_ci", Value: 1}}},
			},
		},
		{
			collection: "group_memberships",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{Keys: bson.D{{Key: "user_id", Value: 1}}},
			},
		},
		{
			collection: "buddy_pairings",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "week_start", Value: 1}}},
				{Keys: bson.D{{Key: "member_a", Value: 1}, {Key: "week_start", Value: -1}}},
				{Keys: bson.D{{Key: "member_b", Value: 1}, {Key: "week_start", Value: -1}}},
				{Keys: bson.D{{Key: "member_c", Value: 1}, {Key: "week_start", Value: -1}}},
			},
		},
		{
			collection: "chat_rooms",
			models: []mongo.IndexModel{
				{
					Keys: bson.D{{Key: "pairing_id", Value: 1}},
					Options: options.Index().
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"pairing_id": bson.M{"$exists": true}}),
				},
			},
		},
		{
			collection: "chat_messages",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "audit_events",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "event_type", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "groups",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}}},
				{
					Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name_ci", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", idx.collection, err)
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
