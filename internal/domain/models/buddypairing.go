// internal/domain/models/buddypairing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuddyPairing is one accountability unit: two (or, for odd-sized groups,
// three) members of a group paired together for one calendar week.
//
// Invariants:
//   - MemberC is set if and only if the pairing is a triplet.
//   - For a given (group_id, week_start) the pairing rows partition the
//     group's membership at generation time.
//   - Rows are never updated in place; regeneration deletes and recreates
//     the whole (group_id, week_start) set.
type BuddyPairing struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID  `bson:"group_id" json:"group_id"`
	MemberA primitive.ObjectID  `bson:"member_a" json:"member_a"`
	MemberB primitive.ObjectID  `bson:"member_b" json:"member_b"`
	MemberC *primitive.ObjectID `bson:"member_c,omitempty" json:"member_c,omitempty"`

	// WeekStart is the Monday beginning the ISO week this pairing applies
	// to, stored as a date (midnight UTC, no time-of-day meaning).
	WeekStart time.Time `bson:"week_start" json:"week_start"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Members returns the pairing's member IDs (two or three entries).
func (p BuddyPairing) Members() []primitive.ObjectID {
	m := []primitive.ObjectID{p.MemberA, p.MemberB}
	if p.MemberC != nil {
		m = append(m, *p.MemberC)
	}
	return m
}

// HasMember reports whether userID is one of the pairing's members.
func (p BuddyPairing) HasMember(userID primitive.ObjectID) bool {
	if p.MemberA == userID || p.MemberB == userID {
		return true
	}
	return p.MemberC != nil && *p.MemberC == userID
}
