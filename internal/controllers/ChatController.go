package controllers

import (
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"net/http"
)

type ChatController struct {
	logger providers.Logger
}

type transcriptResponse struct {
	Transcript []models.ChatMessage `json:"transcript"`
	Busy       bool                 `json:"busy"`
}

type chatReplyResponse struct {
	Reply      models.ChatMessage   `json:"reply"`
	Transcript []models.ChatMessage `json:"transcript"`
	// Failed marks a reply that is the connection-lost notice, not an answer.
	Failed bool `json:"failed"`
}

func NewChatController(logger providers.Logger) *ChatController {
	return &ChatController{logger: logger}
}

func (cc *ChatController) Transcript(w http.ResponseWriter, r *http.Request) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Transcript: state.Chat.Transcript(), Busy: state.Chat.Busy()})
}

func (cc *ChatController) Send(w http.ResponseWriter, r *http.Request) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	var payload models.ChatRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	reply, err := state.Chat.Send(r.Context(), payload.Text)
	failed := errors.Is(err, services.ErrInference)
	if err != nil && !failed {
		respondError(w, r, cc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chatReplyResponse{Reply: reply, Transcript: state.Chat.Transcript(), Failed: failed})
}
