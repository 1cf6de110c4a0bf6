// Package chat exposes the conversation API over HTTP.
package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/sparklabs/sparkchat/internal/service/chat"
	"github.com/sparklabs/sparkchat/pkg/utils"
)

// Handler translates HTTP requests into orchestrator calls. Internal
// failures are logged server-side; only the fixed error strings below
// cross the boundary.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handleGetHistory)
	r.Post("/chat", h.handleSubmitMessage)
	r.Delete("/history", h.handleClearHistory)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.chatSvc.History(r.Context())
	if err != nil {
		log.Printf("[chat] history error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, history)
}

func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userTurn, replyTurn, err := h.chatSvc.Submit(r.Context(), payload.Message)
	if err != nil {
		if errors.Is(err, chatService.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "Message is required")
			return
		}
		log.Printf("[chat] submit error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"userMsg": userTurn,
		"aiMsg":   replyTurn,
	})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.Clear(r.Context()); err != nil {
		log.Printf("[chat] clear error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat cleared"})
}
