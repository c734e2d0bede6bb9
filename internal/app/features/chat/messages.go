// internal/app/features/chat/messages.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	messagestore "github.com/dalemusser/coachhub/internal/app/store/chatmessages"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	"github.com/dalemusser/coachhub/internal/app/system/timeouts"
	"github.com/dalemusser/coachhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type messagesResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

// ServeMessages lists a room's recent messages, oldest first.
//
// GET /chat/rooms/{roomID}/messages?limit=50
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var limit int64 = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list chat messages")
	defer cancel()

	if !h.authorizeRoomAccess(ctx, w, r, roomID) {
		return
	}

	msgs, err := h.Messages.ListRecent(ctx, roomID, limit)
	if err != nil {
		h.Log.Error("list chat messages failed",
			zap.String("room_id", roomID.Hex()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}

	respondJSON(w, http.StatusOK, messagesResponse{Messages: msgs})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

// HandlePostMessage appends a message to a room. Markup in the body is
// stripped before storage.
//
// POST /chat/rooms/{roomID}/messages
func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	roomID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "post chat message")
	defer cancel()

	if !h.authorizeRoomAccess(ctx, w, r, roomID) {
		return
	}

	user, _ := auth.CurrentUser(r)
	senderID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session user id")
		return
	}

	if !h.Limiter.Allow(senderID.Hex()) {
		respondError(w, http.StatusTooManyRequests, "sending messages too quickly")
		return
	}

	msg, err := h.Messages.Append(ctx, roomID, senderID, req.Body)
	if errors.Is(err, messagestore.ErrEmptyBody) {
		respondError(w, http.StatusUnprocessableEntity, "message body is empty")
		return
	}
	if err != nil {
		h.Log.Error("append chat message failed",
			zap.String("room_id", roomID.Hex()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not send message")
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// authorizeRoomAccess verifies the room exists and, for buddy rooms, that
// the signed-in user is a member of the backing pairing. It writes the
// error response itself and reports whether the caller may proceed.
func (h *Handler) authorizeRoomAccess(ctx context.Context, w http.ResponseWriter, r *http.Request, roomID primitive.ObjectID) bool {
	room, err := h.Rooms.GetByID(ctx, roomID)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "room not found")
		return false
	}
	if err != nil {
		h.Log.Error("load chat room failed",
			zap.String("room_id", roomID.Hex()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load room")
		return false
	}

	if !room.IsBuddyChat || room.PairingID == nil {
		// Non-buddy rooms have no pairing-based membership to enforce here.
		return true
	}

	user, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session user id")
		return false
	}

	pairing, err := h.Pairings.GetByID(ctx, *room.PairingID)
	if err != nil {
		h.Log.Error("load pairing for room failed",
			zap.String("room_id", roomID.Hex()),
			zap.String("pairing_id", room.PairingID.Hex()),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not verify room membership")
		return false
	}
	if !pairing.HasMember(userID) {
		respondError(w, http.StatusForbidden, "not a member of this room")
		return false
	}
	return true
}
