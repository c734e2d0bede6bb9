// internal/app/store/chatmessages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists chat messages. Bodies are sanitized down to plain text on
// the way in; the realtime fan-out of new messages is owned by the client
// transport, not this store.
type Store struct {
	c        *mongo.Collection
	sanitize *bluemonday.Policy
}

var ErrEmptyBody = errors.New("message body is empty")

const maxBodyLen = 4000

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("chat_messages"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Append stores one message after stripping any markup from the body.
// A body that is empty after sanitization is rejected.
func (s *Store) Append(ctx context.Context, roomID, senderID primitive.ObjectID, body string) (models.ChatMessage, error) {
	clean := strings.TrimSpace(s.sanitize.Sanitize(body))
	if clean == "" {
		return models.ChatMessage{}, ErrEmptyBody
	}
	if len(clean) > maxBodyLen {
		clean = clean[:maxBodyLen]
	}

	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		RoomID:    roomID,
		SenderID:  senderID,
		Body:      clean,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// ListRecent returns up to limit messages for a room, oldest first.
func (s *Store) ListRecent(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	// Fetch the newest N, then reverse so callers render oldest-first.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.ChatMessage
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
