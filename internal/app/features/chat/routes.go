// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /chat requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/rooms/{roomID}/messages", h.ServeMessages)
		pr.Post("/rooms/{roomID}/messages", h.HandlePostMessage)
	})

	return r
}
