package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given names and role.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.NameCI = text.Fold(user.FullName())

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCoach creates a test user with the coach role.
func (f *Fixtures) CreateCoach(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, firstName, lastName, email, "coach")
}

// CreateClient creates a test user with the client role.
func (f *Fixtures) CreateClient(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, firstName, lastName, email, "client")
}

// CreateGroup creates a test group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// AddMember adds a membership row joining userID to groupID.
func (f *Fixtures) AddMember(ctx context.Context, groupID, userID primitive.ObjectID, role string) {
	f.t.Helper()

	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	_, err := f.db.Collection("group_memberships").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
}

// CreateGroupWithClients creates a group plus n clients, all joined as
// members. Returns the group and the client users in creation order.
func (f *Fixtures) CreateGroupWithClients(ctx context.Context, name string, n int) (models.Group, []models.User) {
	f.t.Helper()

	coach := f.CreateCoach(ctx, "Casey", "Coach", name+"-coach@example.com")
	group := f.CreateGroup(ctx, name, coach.ID)

	clients := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		c := f.CreateClient(ctx,
			"Client",
			string(rune('A'+i)),
			name+"-client-"+string(rune('a'+i))+"@example.com")
		f.AddMember(ctx, group.ID, c.ID, "client")
		clients = append(clients, c)
	}
	return group, clients
}

// CreatePairing inserts a pairing row directly (bypassing the generator).
func (f *Fixtures) CreatePairing(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time, memberA, memberB primitive.ObjectID, memberC *primitive.ObjectID) models.BuddyPairing {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.BuddyPairing{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		MemberA:   memberA,
		MemberB:   memberB,
		MemberC:   memberC,
		WeekStart: weekStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := f.db.Collection("buddy_pairings").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test pairing: %v", err)
	}
	return p
}
