// internal/app/system/buddies/rooms.go
package buddies

import (
	"context"
	"errors"
	"fmt"
	"time"

	pairingstore "github.com/dalemusser/coachhub/internal/app/store/pairings"
	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrInvalidPairingRef is returned when a room is requested without at
// least two member IDs and a pairing ID. No room is created.
var ErrInvalidPairingRef = errors.New("buddy chat room requires at least two members and a pairing id")

// RoomView is a display-ready buddy chat room for one viewer.
type RoomView struct {
	RoomID    primitive.ObjectID   `json:"room_id"`
	PairingID primitive.ObjectID   `json:"pairing_id"`
	Name      string               `json:"name"`
	BuddyIDs  []primitive.ObjectID `json:"buddy_ids"`
	WeekStart time.Time            `json:"week_start"`
}

// FetchBuddyChatRooms returns the viewer's buddy chat rooms for the current
// week, creating backing rooms on first access.
//
// If no pairing exists yet for the current week, the viewer's single most
// recent pairing (any week) is used instead, so last week's buddies stay
// visible across the week boundary until new pairings are generated.
//
// Room resolution is fault-isolated per pairing: a failure resolving one
// room is logged and skipped, and the rest of the list is still returned.
func (s *Service) FetchBuddyChatRooms(ctx context.Context, userID primitive.ObjectID) ([]RoomView, error) {
	weekStart := isoweek.WeekStart(s.clock())

	pairings, err := s.pairings.ListForMemberWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("list pairings for week: %w", err)
	}
	if len(pairings) == 0 {
		latest, err := s.pairings.LatestForMember(ctx, userID)
		if errors.Is(err, pairingstore.ErrNoPairings) {
			return []RoomView{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find latest pairing: %w", err)
		}
		pairings = []models.BuddyPairing{latest}
	}

	views := make([]RoomView, 0, len(pairings))
	for _, p := range pairings {
		view, err := s.resolveRoom(ctx, p, userID)
		if err != nil {
			s.log.Warn("skipping buddy chat room",
				zap.String("pairing_id", p.ID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) resolveRoom(ctx context.Context, p models.BuddyPairing, viewerID primitive.ObjectID) (RoomView, error) {
	room, err := s.GetBuddyChatRoom(ctx, p.Members(), p.ID)
	if err != nil {
		return RoomView{}, err
	}

	buddyIDs := make([]primitive.ObjectID, 0, 2)
	for _, id := range p.Members() {
		if id != viewerID {
			buddyIDs = append(buddyIDs, id)
		}
	}
	buddies, err := s.users.GetByIDs(ctx, buddyIDs)
	if err != nil {
		return RoomView{}, fmt.Errorf("load buddy profiles: %w", err)
	}

	return RoomView{
		RoomID:    room.ID,
		PairingID: p.ID,
		Name:      DisplayName(buddies),
		BuddyIDs:  buddyIDs,
		WeekStart: p.WeekStart,
	}, nil
}

// GetBuddyChatRoom returns the chat room bound to pairingID, creating it on
// first access. Repeated calls for the same pairing always return the same
// room; the unique index on the pairing back-reference holds even when two
// callers race on creation.
func (s *Service) GetBuddyChatRoom(ctx context.Context, memberIDs []primitive.ObjectID, pairingID primitive.ObjectID) (models.ChatRoom, error) {
	if len(memberIDs) < 2 || pairingID.IsZero() {
		return models.ChatRoom{}, ErrInvalidPairingRef
	}

	room, found, err := s.rooms.FindBuddyRoomByPairing(ctx, pairingID)
	if err != nil {
		return models.ChatRoom{}, fmt.Errorf("find buddy room: %w", err)
	}
	if found {
		return room, nil
	}

	room, err = s.rooms.CreateBuddyRoom(ctx, GenericRoomName, pairingID)
	if err != nil {
		return models.ChatRoom{}, fmt.Errorf("create buddy room: %w", err)
	}
	s.log.Info("created buddy chat room",
		zap.String("room_id", room.ID.Hex()),
		zap.String("pairing_id", pairingID.Hex()))
	return room, nil
}
