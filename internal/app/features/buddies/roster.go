// internal/app/features/buddies/roster.go
package buddies

import (
	"net/http"
	"time"

	"github.com/dalemusser/coachhub/internal/app/store/queries/buddyroster"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/isoweek"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type rosterBuddy struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type rosterEntry struct {
	PairingID string        `json:"pairing_id"`
	GroupID   string        `json:"group_id"`
	WeekStart time.Time     `json:"week_start"`
	Buddies   []rosterBuddy `json:"buddies"`
}

type rosterResponse struct {
	WeekStart time.Time     `json:"week_start"`
	Entries   []rosterEntry `json:"entries"`
}

// ServeRoster shows who the signed-in user is paired with this week, with
// buddy profiles resolved. Display only; rooms are not created here.
//
// GET /buddies/roster
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session user id")
		return
	}

	weekStart := isoweek.WeekStart(time.Now())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "buddy roster")
	defer cancel()

	entries, err := buddyroster.ListForMemberWeek(ctx, h.DB, userID, weekStart)
	if err != nil {
		h.Log.Error("buddy roster query failed",
			zap.String("user_id", user.ID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load buddy roster")
		return
	}

	resp := rosterResponse{WeekStart: weekStart, Entries: make([]rosterEntry, 0, len(entries))}
	for _, e := range entries {
		entry := rosterEntry{
			PairingID: e.Pairing.ID.Hex(),
			GroupID:   e.Pairing.GroupID.Hex(),
			WeekStart: e.Pairing.WeekStart,
		}
		for _, m := range e.Members {
			if m.ID == userID {
				continue
			}
			entry.Buddies = append(entry.Buddies, rosterBuddy{
				UserID:    m.ID.Hex(),
				FirstName: m.FirstName,
				LastName:  m.LastName,
			})
		}
		resp.Entries = append(resp.Entries, entry)
	}

	respondJSON(w, http.StatusOK, resp)
}
