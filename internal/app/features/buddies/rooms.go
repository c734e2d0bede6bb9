// internal/app/features/buddies/rooms.go
package buddies

import (
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/system/auth"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type roomsResponse struct {
	Rooms []buddysvc.RoomView `json:"rooms"`
}

// ServeBuddyRooms lists the signed-in user's buddy chat rooms for the
// current week (or their most recent pairing when this week's pairings have
// not been generated yet), creating backing rooms on demand.
//
// GET /buddies/rooms
func (h *Handler) ServeBuddyRooms(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "buddy rooms")
	defer cancel()

	rooms, err := h.Svc.FetchBuddyChatRooms(ctx, userID)
	if err != nil {
		h.Log.Error("fetch buddy rooms failed",
			zap.String("user_id", user.ID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load buddy rooms")
		return
	}

	respondJSON(w, http.StatusOK, roomsResponse{Rooms: rooms})
}
