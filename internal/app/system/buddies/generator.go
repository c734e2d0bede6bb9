// internal/app/system/buddies/generator.go
package buddies

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrInsufficientMembers is returned when a group has fewer than two
// members at generation time. No rows are written.
var ErrInsufficientMembers = errors.New("group needs at least two members for buddy pairings")

// GenerateWeeklyBuddies computes and persists the buddy pairing set for
// groupID for the current week.
//
// Behavior:
//   - If pairings already exist for (group, week) and force is false, this
//     is a no-op and returns nil.
//   - If they exist and force is true, the old rows are deleted and a fresh
//     partition is written.
//   - Fewer than two members: ErrInsufficientMembers, nothing written.
//
// The delete-then-insert of a forced regeneration is not atomic: a
// concurrent reader can briefly observe an empty week. Both legs are keyed
// by (group, week), so re-running after a partial failure converges.
// Concurrent forced regenerations for the same key are not synchronized
// and can interleave; regeneration is a rare, coach-initiated action.
func (s *Service) GenerateWeeklyBuddies(ctx context.Context, groupID primitive.ObjectID, force bool) error {
	weekStart := isoweek.WeekStart(s.clock())

	exists, err := s.pairings.ExistsForWeek(ctx, groupID, weekStart)
	if err != nil {
		return fmt.Errorf("check existing pairings: %w", err)
	}
	if exists && !force {
		s.log.Info("buddy pairings already exist for week",
			zap.String("group_id", groupID.Hex()),
			zap.Time("week_start", weekStart))
		return nil
	}

	memberIDs, err := s.memberships.ListMemberIDs(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list group members: %w", err)
	}
	if len(memberIDs) < 2 {
		return fmt.Errorf("%w: group %s has %d", ErrInsufficientMembers, groupID.Hex(), len(memberIDs))
	}

	if exists {
		deleted, err := s.pairings.DeleteForWeek(ctx, groupID, weekStart)
		if err != nil {
			return fmt.Errorf("delete existing pairings: %w", err)
		}
		s.log.Info("regenerating buddy pairings",
			zap.String("group_id", groupID.Hex()),
			zap.Time("week_start", weekStart),
			zap.Int64("deleted", deleted))
	}

	units := PartitionMembers(shuffleMembers(memberIDs))
	rows := make([]models.BuddyPairing, 0, len(units))
	for _, unit := range units {
		p := models.BuddyPairing{
			GroupID:   groupID,
			MemberA:   unit[0],
			MemberB:   unit[1],
			WeekStart: weekStart,
		}
		if len(unit) == 3 {
			c := unit[2]
			p.MemberC = &c
		}
		rows = append(rows, p)
	}

	if _, err := s.pairings.InsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("insert pairings: %w", err)
	}

	s.log.Info("generated buddy pairings",
		zap.String("group_id", groupID.Hex()),
		zap.Time("week_start", weekStart),
		zap.Int("members", len(memberIDs)),
		zap.Int("pairings", len(rows)))
	return nil
}

// PartitionMembers splits an already-shuffled member list into pairing
// units. Even counts become consecutive pairs; odd counts put the first
// three members into one triplet and pair the (even) remainder. Every
// input ID appears in exactly one unit. Fewer than two members yields nil.
func PartitionMembers(memberIDs []primitive.ObjectID) [][]primitive.ObjectID {
	n := len(memberIDs)
	if n < 2 {
		return nil
	}

	units := make([][]primitive.ObjectID, 0, n/2)
	rest := memberIDs
	if n%2 == 1 {
		units = append(units, []primitive.ObjectID{rest[0], rest[1], rest[2]})
		rest = rest[3:]
	}
	for i := 0; i+1 < len(rest); i += 2 {
		units = append(units, []primitive.ObjectID{rest[i], rest[i+1]})
	}
	return units
}

// shuffleMembers returns a uniformly shuffled copy of memberIDs.
// The permutation itself is not a contract; only the partition is.
func shuffleMembers(memberIDs []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(memberIDs))
	copy(out, memberIDs)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
