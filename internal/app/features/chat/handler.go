// internal/app/features/chat/handler.go
package chat

import (
	"encoding/json"
	"net/http"

	messagestore "github.com/dalemusser/coachhub/internal/app/store/chatmessages"
	chatroomstore "github.com/dalemusser/coachhub/internal/app/store/chatrooms"
	pairingstore "github.com/dalemusser/coachhub/internal/app/store/pairings"
	"github.com/dalemusser/coachhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the chat feature.
// Realtime delivery is owned by the client transport; these endpoints only
// read and append message history.
type Handler struct {
	Rooms    *chatroomstore.Store
	Messages *messagestore.Store
	Pairings *pairingstore.Store
	Limiter  *ratelimit.Limiter
	Log      *zap.Logger
}

// NewHandler constructs a chat Handler. Message posting is rate limited
// per sender.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Rooms:    chatroomstore.New(db),
		Messages: messagestore.New(db),
		Pairings: pairingstore.New(db),
		Limiter:  ratelimit.NewMessageLimiter(),
		Log:      logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
