package buddies_test

import (
	"errors"
	"testing"
	"time"

	pairingstore "github.com/dalemusser/coachhub/internal/app/store/pairings"
	"github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRunWeeklyMaintenance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	big, _ := fx.CreateGroupWithClients(ctx, "alpha", 4)
	small, _ := fx.CreateGroupWithClients(ctx, "beta", 1)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))
	summary, err := svc.RunWeeklyMaintenance(ctx)
	if err != nil {
		t.Fatalf("RunWeeklyMaintenance: %v", err)
	}

	if summary.Total != 2 {
		t.Errorf("Total = %d, want 2", summary.Total)
	}
	if summary.Generated != 1 {
		t.Errorf("Generated = %d, want 1", summary.Generated)
	}
	if summary.RunID == "" {
		t.Error("RunID is empty")
	}
	if !summary.WeekStart.Equal(isoweek.WeekStart(monday)) {
		t.Errorf("WeekStart = %v, want %v", summary.WeekStart, isoweek.WeekStart(monday))
	}
	if got := summary.Message(); got != "generated buddy pairings for 1/2 groups" {
		t.Errorf("Message() = %q", got)
	}

	// One group's failure stays in its own result slot.
	for _, res := range summary.Results {
		switch res.GroupID {
		case big.ID:
			if res.Err != nil {
				t.Errorf("group %q: unexpected error %v", res.GroupName, res.Err)
			}
		case small.ID:
			if !errors.Is(res.Err, buddies.ErrInsufficientMembers) {
				t.Errorf("group %q: got %v, want ErrInsufficientMembers", res.GroupName, res.Err)
			}
		default:
			t.Errorf("unexpected group %s in results", res.GroupID.Hex())
		}
	}

	pairings, err := pairingstore.New(db).ListForWeek(ctx, big.ID, isoweek.WeekStart(monday))
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}
	if len(pairings) != 2 {
		t.Fatalf("got %d pairings for the viable group, want 2", len(pairings))
	}
}

// A second firing on the same Monday must not rewrite existing weeks.
func TestRunWeeklyMaintenanceRepeatIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, _ := fx.CreateGroupWithClients(ctx, "gamma", 4)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))
	if _, err := svc.RunWeeklyMaintenance(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	store := pairingstore.New(db)
	weekStart := isoweek.WeekStart(monday)
	first, err := store.ListForWeek(ctx, group.ID, weekStart)
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}

	if _, err := svc.RunWeeklyMaintenance(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := store.ListForWeek(ctx, group.ID, weekStart)
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("pairing count changed from %d to %d", len(first), len(second))
	}
	firstIDs := make(map[primitive.ObjectID]bool, len(first))
	for _, p := range first {
		firstIDs[p.ID] = true
	}
	for _, p := range second {
		if !firstIDs[p.ID] {
			t.Fatalf("pairing rows changed on a repeated Monday run")
		}
	}
}

func TestCheckWeeklyBuddies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, _ := fx.CreateGroupWithClients(ctx, "delta", 2)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))

	exists, err := svc.CheckWeeklyBuddies(ctx, group.ID)
	if err != nil {
		t.Fatalf("CheckWeeklyBuddies: %v", err)
	}
	if exists {
		t.Fatal("reported pairings before any were generated")
	}

	if err := svc.GenerateWeeklyBuddies(ctx, group.ID, false); err != nil {
		t.Fatalf("GenerateWeeklyBuddies: %v", err)
	}

	exists, err = svc.CheckWeeklyBuddies(ctx, group.ID)
	if err != nil {
		t.Fatalf("CheckWeeklyBuddies: %v", err)
	}
	if !exists {
		t.Fatal("did not report pairings after generation")
	}
}
