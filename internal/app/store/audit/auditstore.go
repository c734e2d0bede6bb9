// internal/app/store/audit/auditstore.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAdmin = "admin"
)

// Event types.
const (
	EventPairingsRegenerated = "pairings_regenerated"
	EventMaintenanceRun      = "maintenance_run"
)

// Event is one audit record. Events are append-only.
type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Category      string              `bson:"category"`
	EventType     string              `bson:"event_type"`
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty"`
	GroupID       *primitive.ObjectID `bson:"group_id,omitempty"`
	IP            string              `bson:"ip,omitempty"`
	UserAgent     string              `bson:"user_agent,omitempty"`
	Success       bool                `bson:"success"`
	FailureReason string              `bson:"failure_reason,omitempty"`
	Details       map[string]string   `bson:"details,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log appends one event. The timestamp is assigned here.
func (s *Store) Log(ctx context.Context, event Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// ListRecent returns up to limit events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
