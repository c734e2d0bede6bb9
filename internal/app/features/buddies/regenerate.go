// internal/app/features/buddies/regenerate.go
package buddies

import (
	"errors"
	"net/http"

	"github.com/dalemusser/coachhub/internal/app/system/auth"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type regenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HandleRegenerate generates (or force-regenerates) the current week's
// buddy pairings for one group.
//
// POST /buddies/groups/{groupID}/regenerate?force=false
//
// force defaults to true: the button in the coach UI means "reassign now".
// Coaches may only regenerate groups they own; admins may regenerate any.
func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	force := r.URL.Query().Get("force") != "false"

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "buddy regeneration")
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("load group for regeneration failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load group")
		return
	}

	user, _ := auth.CurrentUser(r)
	if user.Role != "admin" && group.OwnerID.Hex() != user.ID {
		respondError(w, http.StatusForbidden, "only the group's coach can regenerate pairings")
		return
	}
	actorID, _ := primitive.ObjectIDFromHex(user.ID)

	if err := h.Svc.GenerateWeeklyBuddies(ctx, groupID, force); err != nil {
		h.Audit.PairingsRegenerated(ctx, r, actorID, groupID, user.Role, force, false, err.Error())
		if errors.Is(err, buddysvc.ErrInsufficientMembers) {
			respondJSON(w, http.StatusUnprocessableEntity, regenerateResponse{
				Success: false,
				Message: "group needs at least two members for buddy pairings",
			})
			return
		}
		h.Log.Error("buddy regeneration failed",
			zap.String("group_id", groupID.Hex()),
			zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, regenerateResponse{Success: false})
		return
	}

	h.Audit.PairingsRegenerated(ctx, r, actorID, groupID, user.Role, force, true, "")
	respondJSON(w, http.StatusOK, regenerateResponse{Success: true})
}
