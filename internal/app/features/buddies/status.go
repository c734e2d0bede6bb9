// internal/app/features/buddies/status.go
package buddies

import (
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type statusResponse struct {
	Exists bool `json:"exists"`
}

// ServePairingStatus reports whether buddy pairings already exist for the
// group in the current week. It is a pure read: checking never generates.
//
// GET /buddies/groups/{groupID}/status
func (h *Handler) ServePairingStatus(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pairing status")
	defer cancel()

	exists, err := h.Svc.CheckWeeklyBuddies(ctx, groupID)
	if err != nil {
		h.Log.Error("pairing status check failed",
			zap.String("group_id", groupID.Hex()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not check pairings")
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Exists: exists})
}
