// internal/app/store/queries/buddyroster/buddyroster.go

// Package buddyroster answers "who are this user's buddies this week" in a
// single aggregation: the user's pairings for a week joined with the user
// documents of everyone in those pairings.
package buddyroster

import (
	"context"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RosterEntry is one pairing with its member profiles resolved.
type RosterEntry struct {
	Pairing models.BuddyPairing `bson:"pairing" json:"pairing"`
	Members []models.User       `bson:"members" json:"members"`
}

// ListForMemberWeek returns the pairings for (userID, weekStart) with member
// user documents joined in. Ordered by group so output is stable.
func ListForMemberWeek(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, weekStart time.Time) ([]RosterEntry, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"week_start": weekStart,
			"$or": bson.A{
				bson.M{"member_a": userID},
				bson.M{"member_b": userID},
				bson.M{"member_c": userID},
			},
		}}},
		// Collapse the two-or-three member fields into one array for the join.
		bson.D{{Key: "$addFields", Value: bson.M{
			"member_ids": bson.M{"$filter": bson.M{
				"input": bson.A{"$member_a", "$member_b", "$member_c"},
				"as":    "m",
				"cond":  bson.M{"$ne": bson.A{"$$m", nil}},
			}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "member_ids",
			"foreignField": "_id",
			"as":           "members",
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "group_id", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.M{
			"pairing": bson.M{
				"_id":        "$_id",
				"group_id":   "$group_id",
				"member_a":   "$member_a",
				"member_b":   "$member_b",
				"member_c":   "$member_c",
				"week_start": "$week_start",
				"created_at": "$created_at",
				"updated_at": "$updated_at",
			},
			"members": 1,
		}}},
	}

	cur, err := db.Collection("buddy_pairings").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []RosterEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
