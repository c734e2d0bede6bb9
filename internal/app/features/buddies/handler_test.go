package buddies_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	buddiesfeature "github.com/dalemusser/coachhub/internal/app/features/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var monday = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func newRouter(t *testing.T, db *mongo.Database, clock func() time.Time) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "coachhub_test", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	svc := buddysvc.NewService(db, logger, buddysvc.WithClock(clock))
	h := buddiesfeature.NewHandler(db, svc, nil, logger)
	return buddiesfeature.Routes(h, sm)
}

func doRequest(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestRoutesRequireSignIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newRouter(t, db, time.Now)

	w := doRequest(router, testutil.NewRequest(http.MethodGet, "/rooms"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /rooms: got %d, want 401", w.Code)
	}
}

func TestRegenerateByOwningCoach(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	coach := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")
	group := fx.CreateGroup(ctx, "crew", coach.ID)
	for i, email := range []string{"a@example.com", "b@example.com"} {
		c := fx.CreateClient(ctx, "Client", string(rune('A'+i)), email)
		fx.AddMember(ctx, group.ID, c.ID, "client")
	}

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/"+group.ID.Hex()+"/regenerate")
	r = testutil.WithUser(r, coach)

	w := doRequest(router, r)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("regeneration reported failure")
	}

	count, err := db.Collection("buddy_pairings").CountDocuments(ctx, bson.M{
		"group_id": group.ID, "week_start": isoweek.WeekStart(monday),
	})
	if err != nil {
		t.Fatalf("count pairings: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d pairings after regenerate, want 1", count)
	}
}

func TestRegenerateForbiddenForOtherCoach(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")
	other := fx.CreateCoach(ctx, "Robin", "Rival", "robin@example.com")
	group := fx.CreateGroup(ctx, "crew", owner.ID)

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/"+group.ID.Hex()+"/regenerate")
	r = testutil.WithUser(r, other)

	if w := doRequest(router, r); w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403 for a coach who does not own the group", w.Code)
	}
}

func TestRegenerateAllowedForAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	coach := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@example.com", "admin")
	group := fx.CreateGroup(ctx, "crew", coach.ID)
	for i, email := range []string{"a@example.com", "b@example.com"} {
		c := fx.CreateClient(ctx, "Client", string(rune('A'+i)), email)
		fx.AddMember(ctx, group.ID, c.ID, "client")
	}

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/"+group.ID.Hex()+"/regenerate")
	r = testutil.WithUser(r, admin)

	if w := doRequest(router, r); w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 for admin", w.Code)
	}
}

func TestRegenerateForbiddenForClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	coach := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")
	client := fx.CreateClient(ctx, "Riley", "Client", "riley@example.com")
	group := fx.CreateGroup(ctx, "crew", coach.ID)

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/"+group.ID.Hex()+"/regenerate")
	r = testutil.WithUser(r, client)

	if w := doRequest(router, r); w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403 for client role", w.Code)
	}
}

func TestRegenerateGroupNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@example.com", "admin")

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/000000000000000000000001/regenerate")
	r = testutil.WithUser(r, admin)

	if w := doRequest(router, r); w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestRegenerateBadGroupID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@example.com", "admin")

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/not-an-id/regenerate")
	r = testutil.WithUser(r, admin)

	if w := doRequest(router, r); w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}
}

func TestRegenerateInsufficientMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	coach := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")
	group := fx.CreateGroup(ctx, "tiny", coach.ID)
	solo := fx.CreateClient(ctx, "Riley", "Client", "riley@example.com")
	fx.AddMember(ctx, group.ID, solo.ID, "client")

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/groups/"+group.ID.Hex()+"/regenerate")
	r = testutil.WithUser(r, coach)

	w := doRequest(router, r)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422; body %s", w.Code, w.Body.String())
	}
}

func TestPairingStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "crew", 2)

	router := newRouter(t, db, func() time.Time { return monday })

	check := func(want bool) {
		t.Helper()
		r := testutil.NewRequest(http.MethodGet, "/groups/"+group.ID.Hex()+"/status")
		r = testutil.WithUser(r, clients[0])
		w := doRequest(router, r)
		if w.Code != http.StatusOK {
			t.Fatalf("got %d, want 200", w.Code)
		}
		var resp struct {
			Exists bool `json:"exists"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Exists != want {
			t.Fatalf("exists = %v, want %v", resp.Exists, want)
		}
	}

	check(false)
	fx.CreatePairing(ctx, group.ID, isoweek.WeekStart(monday), clients[0].ID, clients[1].ID, nil)
	check(true)
}

func TestRunMaintenanceAdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	coach := fx.CreateCoach(ctx, "Casey", "Coach", "casey@example.com")

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/maintenance/run")
	r = testutil.WithUser(r, coach)

	if w := doRequest(router, r); w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403 for coach", w.Code)
	}
}

func TestRunMaintenance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@example.com", "admin")
	fx.CreateGroupWithClients(ctx, "crew", 4)

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodPost, "/maintenance/run")
	r = testutil.WithUser(r, admin)

	w := doRequest(router, r)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		RunID   string `json:"run_id"`
		Message string `json:"message"`
		Results []struct {
			Success bool `json:"success"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("maintenance reported failure: %s", resp.Message)
	}
	if resp.RunID == "" {
		t.Error("run_id missing")
	}
	if len(resp.Results) != 1 || !resp.Results[0].Success {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
}

func TestRunMaintenanceNotMonday(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@example.com", "admin")

	tuesday := monday.AddDate(0, 0, 1)
	router := newRouter(t, db, func() time.Time { return tuesday })
	r := testutil.NewRequest(http.MethodPost, "/maintenance/run")
	r = testutil.WithUser(r, admin)

	if w := doRequest(router, r); w.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409 off-Monday", w.Code)
	}
}

func TestServeBuddyRooms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "crew", 2)
	viewer, buddy := clients[0], clients[1]
	fx.CreatePairing(ctx, group.ID, isoweek.WeekStart(monday), viewer.ID, buddy.ID, nil)

	router := newRouter(t, db, func() time.Time { return monday })
	r := testutil.NewRequest(http.MethodGet, "/rooms")
	r = testutil.WithUser(r, viewer)

	w := doRequest(router, r)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Rooms []buddysvc.RoomView `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(resp.Rooms))
	}
	if len(resp.Rooms[0].BuddyIDs) != 1 || resp.Rooms[0].BuddyIDs[0] != buddy.ID {
		t.Fatalf("room buddies = %v, want %s", resp.Rooms[0].BuddyIDs, buddy.ID.Hex())
	}
}

func TestServeRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	group, clients := fx.CreateGroupWithClients(ctx, "crew", 2)
	viewer, buddy := clients[0], clients[1]

	// The roster endpoint reads the real clock, so seed the actual week.
	fx.CreatePairing(ctx, group.ID, isoweek.WeekStart(time.Now()), viewer.ID, buddy.ID, nil)

	router := newRouter(t, db, time.Now)
	r := testutil.NewRequest(http.MethodGet, "/roster")
	r = testutil.WithUser(r, viewer)

	w := doRequest(router, r)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Entries []struct {
			GroupID string `json:"group_id"`
			Buddies []struct {
				UserID    string `json:"user_id"`
				FirstName string `json:"first_name"`
			} `json:"buddies"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(resp.Entries))
	}
	entry := resp.Entries[0]
	if entry.GroupID != group.ID.Hex() {
		t.Errorf("entry group = %s, want %s", entry.GroupID, group.ID.Hex())
	}
	if len(entry.Buddies) != 1 || entry.Buddies[0].UserID != buddy.ID.Hex() {
		t.Fatalf("entry buddies = %+v, want just %s", entry.Buddies, buddy.ID.Hex())
	}
}
