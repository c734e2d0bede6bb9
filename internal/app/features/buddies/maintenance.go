// internal/app/features/buddies/maintenance.go
package buddies

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/auth"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type maintenanceGroupResult struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type maintenanceResponse struct {
	Success   bool                     `json:"success"`
	RunID     string                   `json:"run_id,omitempty"`
	WeekStart time.Time                `json:"week_start,omitempty"`
	Message   string                   `json:"message"`
	Results   []maintenanceGroupResult `json:"results,omitempty"`
}

// HandleRunMaintenance triggers the weekly buddy fan-out by hand. The same
// Monday guard applies as for the scheduled run.
//
// POST /buddies/maintenance/run
func (h *Handler) HandleRunMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "weekly buddy maintenance")
	defer cancel()

	user, _ := auth.CurrentUser(r)
	actorID, _ := primitive.ObjectIDFromHex(user.ID)

	summary, err := h.Svc.RunWeeklyMaintenance(ctx)
	if errors.Is(err, buddysvc.ErrNotMonday) {
		h.Audit.MaintenanceRun(ctx, r, actorID, "", 0, 0, false, err.Error())
		respondJSON(w, http.StatusConflict, maintenanceResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		h.Log.Error("weekly buddy maintenance failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, maintenanceResponse{
			Success: false,
			Message: "weekly maintenance failed",
		})
		return
	}
	h.Audit.MaintenanceRun(ctx, r, actorID, summary.RunID, summary.Generated, summary.Total, true, "")

	results := make([]maintenanceGroupResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		entry := maintenanceGroupResult{
			GroupID:   res.GroupID.Hex(),
			GroupName: res.GroupName,
			Success:   res.Err == nil,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		results = append(results, entry)
	}

	respondJSON(w, http.StatusOK, maintenanceResponse{
		Success:   summary.Generated == summary.Total,
		RunID:     summary.RunID,
		WeekStart: summary.WeekStart,
		Message:   summary.Message(),
		Results:   results,
	})
}
