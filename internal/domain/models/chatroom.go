// internal/domain/models/chatroom.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoom is a conversation container. Buddy chat rooms carry a
// back-reference to the BuddyPairing that produced them; at most one room
// exists per pairing (enforced by a unique partial index on pairing_id).
type ChatRoom struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	IsGroupChat bool                `bson:"is_group_chat" json:"is_group_chat"`
	IsBuddyChat bool                `bson:"is_buddy_chat" json:"is_buddy_chat"`
	PairingID   *primitive.ObjectID `bson:"pairing_id,omitempty" json:"pairing_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
