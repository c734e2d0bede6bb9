// internal/app/store/chatrooms/chatroomstore.go
package chatroomstore

import (
	"context"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_rooms")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ChatRoom, error) {
	var room models.ChatRoom
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		return models.ChatRoom{}, err
	}
	return room, nil
}

// FindBuddyRoomByPairing returns the buddy chat room bound to pairingID,
// or (room, false, nil) when none exists. The unique partial index on
// pairing_id guarantees at most one match.
func (s *Store) FindBuddyRoomByPairing(ctx context.Context, pairingID primitive.ObjectID) (models.ChatRoom, bool, error) {
	var room models.ChatRoom
	err := s.c.FindOne(ctx, bson.M{"is_buddy_chat": true, "pairing_id": pairingID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return models.ChatRoom{}, false, nil
	}
	if err != nil {
		return models.ChatRoom{}, false, err
	}
	return room, true, nil
}

// CreateBuddyRoom creates the chat room for a pairing. If another caller
// created it first (duplicate key on pairing_id), the winner is returned
// instead, so repeated calls are idempotent even under races.
func (s *Store) CreateBuddyRoom(ctx context.Context, name string, pairingID primitive.ObjectID) (models.ChatRoom, error) {
	now := time.Now().UTC()
	room := models.ChatRoom{
		ID:          primitive.NewObjectID(),
		Name:        name,
		IsGroupChat: true,
		IsBuddyChat: true,
		PairingID:   &pairingID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.c.InsertOne(ctx, room)
	if err != nil {
		if wafflemongo.IsDup(err) {
			existing, found, ferr := s.FindBuddyRoomByPairing(ctx, pairingID)
			if ferr != nil {
				return models.ChatRoom{}, ferr
			}
			if found {
				return existing, nil
			}
		}
		return models.ChatRoom{}, err
	}
	return room, nil
}
