package buddies_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestGetBuddyChatRoomIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "room-group", 2)
	pairing := fx.CreatePairing(ctx, group.ID, isoweek.WeekStart(monday), clients[0].ID, clients[1].ID, nil)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))

	first, err := svc.GetBuddyChatRoom(ctx, pairing.Members(), pairing.ID)
	if err != nil {
		t.Fatalf("first GetBuddyChatRoom: %v", err)
	}
	if first.PairingID == nil || *first.PairingID != pairing.ID {
		t.Fatal("room is not bound to the pairing")
	}
	if !first.IsBuddyChat {
		t.Error("room not flagged as buddy chat")
	}
	if first.Name != buddies.GenericRoomName {
		t.Errorf("stored room name = %q, want %q", first.Name, buddies.GenericRoomName)
	}

	second, err := svc.GetBuddyChatRoom(ctx, pairing.Members(), pairing.ID)
	if err != nil {
		t.Fatalf("second GetBuddyChatRoom: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call returned room %s, want %s", second.ID.Hex(), first.ID.Hex())
	}
}

func TestGetBuddyChatRoomInvalidArgs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := buddies.NewService(db, zap.NewNop())

	one := []primitive.ObjectID{primitive.NewObjectID()}
	two := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	if _, err := svc.GetBuddyChatRoom(ctx, one, primitive.NewObjectID()); !errors.Is(err, buddies.ErrInvalidPairingRef) {
		t.Fatalf("single member: got %v, want ErrInvalidPairingRef", err)
	}
	if _, err := svc.GetBuddyChatRoom(ctx, two, primitive.NilObjectID); !errors.Is(err, buddies.ErrInvalidPairingRef) {
		t.Fatalf("zero pairing id: got %v, want ErrInvalidPairingRef", err)
	}
}

func TestFetchBuddyChatRooms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "fetch-group", 2)
	viewer, buddy := clients[0], clients[1]
	pairing := fx.CreatePairing(ctx, group.ID, isoweek.WeekStart(monday), viewer.ID, buddy.ID, nil)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))

	views, err := svc.FetchBuddyChatRooms(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("FetchBuddyChatRooms: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d rooms, want 1", len(views))
	}

	view := views[0]
	if view.PairingID != pairing.ID {
		t.Errorf("PairingID = %s, want %s", view.PairingID.Hex(), pairing.ID.Hex())
	}
	if len(view.BuddyIDs) != 1 || view.BuddyIDs[0] != buddy.ID {
		t.Errorf("BuddyIDs = %v, want just %s", view.BuddyIDs, buddy.ID.Hex())
	}
	if !view.WeekStart.Equal(pairing.WeekStart) {
		t.Errorf("WeekStart = %v, want %v", view.WeekStart, pairing.WeekStart)
	}
	// The viewer sees the buddy's short name, never their own.
	want := "You, " + buddy.FirstName + " " + string([]rune(buddy.LastName)[:1]) + "."
	if view.Name != want {
		t.Errorf("Name = %q, want %q", view.Name, want)
	}
}

// With no pairing in the current week, the most recent past pairing is
// surfaced so buddies stay reachable across the week boundary.
func TestFetchBuddyChatRoomsFallsBackToLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "fallback-group", 2)
	viewer, buddy := clients[0], clients[1]

	older := isoweek.WeekStart(monday.AddDate(0, 0, -14))
	newer := isoweek.WeekStart(monday.AddDate(0, 0, -7))
	fx.CreatePairing(ctx, group.ID, older, viewer.ID, buddy.ID, nil)
	latest := fx.CreatePairing(ctx, group.ID, newer, viewer.ID, buddy.ID, nil)

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))

	views, err := svc.FetchBuddyChatRooms(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("FetchBuddyChatRooms: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d rooms, want 1 from fallback", len(views))
	}
	if views[0].PairingID != latest.ID {
		t.Fatalf("fallback surfaced pairing %s, want most recent %s", views[0].PairingID.Hex(), latest.ID.Hex())
	}
}

func TestFetchBuddyChatRoomsNoPairings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := buddies.NewService(db, zap.NewNop(), buddies.WithClock(func() time.Time { return monday }))

	views, err := svc.FetchBuddyChatRooms(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("FetchBuddyChatRooms: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("got %d rooms for an unpaired user, want 0", len(views))
	}
}
