// internal/app/features/buddies/routes.go
package buddies

import (
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /buddies requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// Current user's buddy chat rooms (this week, or most recent)
		pr.Get("/rooms", h.ServeBuddyRooms)

		// Current user's buddy roster for this week (display only)
		pr.Get("/roster", h.ServeRoster)

		// Per-group pairing state and regeneration (coach/admin)
		pr.Get("/groups/{groupID}/status", h.ServePairingStatus)
		pr.With(sm.RequireRole("admin", "coach")).
			Post("/groups/{groupID}/regenerate", h.HandleRegenerate)

		// Manual weekly maintenance across all groups (admin only)
		pr.With(sm.RequireRole("admin")).
			Post("/maintenance/run", h.HandleRunMaintenance)
	})

	return r
}
