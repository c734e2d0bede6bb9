// internal/app/system/buddies/service.go

// Package buddies implements accountability-buddy pairing: partitioning a
// group's members into pairs (one triplet for odd counts) for each ISO week,
// the weekly maintenance fan-out across groups, and the binding of each
// pairing to its chat room.
package buddies

import (
	"time"

	groupstore "github.com/dalemusser/coachhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/coachhub/internal/app/store/memberships"
	pairingstore "github.com/dalemusser/coachhub/internal/app/store/pairings"
	userstore "github.com/dalemusser/coachhub/internal/app/store/users"
	chatroomstore "github.com/dalemusser/coachhub/internal/app/store/chatrooms"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service is the buddy-pairing core. It is the sole writer of the
// buddy_pairings collection; everything else reads.
type Service struct {
	groups      *groupstore.Store
	memberships *membershipstore.Store
	users       *userstore.Store
	pairings    *pairingstore.Store
	rooms       *chatroomstore.Store
	log         *zap.Logger

	clock func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the reference clock. Tests use this to pin the
// current week and weekday.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// NewService builds the buddy service over the given database.
func NewService(db *mongo.Database, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
		users:       userstore.New(db),
		pairings:    pairingstore.New(db),
		rooms:       chatroomstore.New(db),
		log:         logger,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
