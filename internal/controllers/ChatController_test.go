package controllers

import (
	"falci/internal/models"
	"falci/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_TranscriptStartsWithGreeting(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "Ayşe", "ayse@example.com", "p")

	rr := h.serve(h.chat.Transcript, httptest.NewRequest(http.MethodGet, "/chat", nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[transcriptResponse](t, rr)
	require.Len(t, resp.Transcript, 1)
	assert.Equal(t, models.RoleAssistant, resp.Transcript[0].Role)
	assert.Contains(t, resp.Transcript[0].Text, "Merhaba Ayşe!")
	assert.False(t, resp.Busy)
}

func TestChat_Send(t *testing.T) {
	h := newHarness(t)
	h.inference.Reply = "Kalbin yakında açılacak."
	token := h.register(t, "Ayşe", "ayse@example.com", "p")

	rr := h.serve(h.chat.Send, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"text":"Aşkım nerede?"}`)), token)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[chatReplyResponse](t, rr)
	assert.False(t, resp.Failed)
	assert.Equal(t, "Kalbin yakında açılacak.", resp.Reply.Text)
	assert.Len(t, resp.Transcript, 3)
}

func TestChat_SendFailureIsReportedInBand(t *testing.T) {
	h := newHarness(t)
	h.inference.Err = &services.InferenceError{Reason: "transport"}
	token := h.register(t, "Ayşe", "ayse@example.com", "p")

	rr := h.serve(h.chat.Send, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"text":"merhaba"}`)), token)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[chatReplyResponse](t, rr)
	assert.True(t, resp.Failed)
	assert.Equal(t, services.ChatFailureText, resp.Reply.Text)
	assert.Len(t, resp.Transcript, 3)
}

func TestChat_SendEmpty(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "Ayşe", "ayse@example.com", "p")

	rr := h.serve(h.chat.Send, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"text":"  "}`)), token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Mesaj boş olamaz.", errorMessage(t, rr))
}
