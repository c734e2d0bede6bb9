// internal/app/store/pairings/pairingstore.go
package pairingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists buddy pairings. Rows are keyed by (group_id, week_start)
// and are only ever written by the generator: inserted as a batch, and
// removed as a batch when a week is regenerated. Nothing updates a pairing
// in place.
type Store struct {
	c *mongo.Collection
}

var ErrNoPairings = errors.New("no pairings found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("buddy_pairings")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.BuddyPairing, error) {
	var p models.BuddyPairing
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.BuddyPairing{}, err
	}
	return p, nil
}

// ExistsForWeek reports whether any pairing exists for (groupID, weekStart).
func (s *Store) ExistsForWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "week_start": weekStart}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForWeek returns all pairings for (groupID, weekStart).
func (s *Store) ListForWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) ([]models.BuddyPairing, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "week_start": weekStart})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pairings []models.BuddyPairing
	if err := cur.All(ctx, &pairings); err != nil {
		return nil, err
	}
	return pairings, nil
}

// memberFilter matches pairings where userID appears in any member slot.
func memberFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"member_a": userID},
		bson.M{"member_b": userID},
		bson.M{"member_c": userID},
	}}
}

// ListForMemberWeek returns the pairings for weekStart that include userID.
// A user in several groups gets one pairing per group.
func (s *Store) ListForMemberWeek(ctx context.Context, userID primitive.ObjectID, weekStart time.Time) ([]models.BuddyPairing, error) {
	filter := memberFilter(userID)
	filter["week_start"] = weekStart

	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pairings []models.BuddyPairing
	if err := cur.All(ctx, &pairings); err != nil {
		return nil, err
	}
	return pairings, nil
}

// LatestForMember returns the single most recent pairing (any week)
// involving userID, or ErrNoPairings when the user has never been paired.
func (s *Store) LatestForMember(ctx context.Context, userID primitive.ObjectID) (models.BuddyPairing, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "week_start", Value: -1}, {Key: "_id", Value: -1}})
	var p models.BuddyPairing
	err := s.c.FindOne(ctx, memberFilter(userID), opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.BuddyPairing{}, ErrNoPairings
	}
	if err != nil {
		return models.BuddyPairing{}, err
	}
	return p, nil
}

// DeleteForWeek removes all pairings for (groupID, weekStart).
// Returns the number of documents deleted.
func (s *Store) DeleteForWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID, "week_start": weekStart})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// InsertBatch inserts a freshly generated pairing set in one call.
// IDs and timestamps are assigned here; the input order is preserved.
func (s *Store) InsertBatch(ctx context.Context, pairings []models.BuddyPairing) ([]models.BuddyPairing, error) {
	if len(pairings) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(pairings))
	for i := range pairings {
		pairings[i].ID = primitive.NewObjectID()
		pairings[i].CreatedAt = now
		pairings[i].UpdatedAt = now
		docs = append(docs, pairings[i])
	}

	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return pairings, nil
}
