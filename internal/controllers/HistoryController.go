package controllers

import (
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"net/http"
	"strconv"
)

type HistoryController struct {
	logger  providers.Logger
	history services.HistoryServiceInterface
}

type historyListResponse struct {
	Kind    models.ReadingKind      `json:"kind"`
	Count   int                     `json:"count"`
	Entries []models.HistorySummary `json:"entries"`
}

func NewHistoryController(logger providers.Logger, history services.HistoryServiceInterface) *HistoryController {
	return &HistoryController{logger: logger, history: history}
}

func (hc *HistoryController) List(w http.ResponseWriter, r *http.Request) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	kind, err := models.ParseKindFilter(r.URL.Query().Get("kind"))
	if err != nil {
		respondError(w, r, hc.logger, err)
		return
	}

	entries, err := hc.history.List(r.Context(), state.User.Email)
	if err != nil {
		respondError(w, r, hc.logger, err)
		return
	}
	summaries := entries.Filter(kind).Summaries()
	writeJSON(w, http.StatusOK, historyListResponse{Kind: kind, Count: len(summaries), Entries: summaries})
}

func (hc *HistoryController) Entry(w http.ResponseWriter, r *http.Request) {
	entry, ok := hc.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (hc *HistoryController) Image(w http.ResponseWriter, r *http.Request) {
	entry, ok := hc.lookup(w, r)
	if !ok {
		return
	}
	if len(entry.Image) == 0 {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	w.Header().Set("Content-Type", entry.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.Image)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(entry.Image)
}

func (hc *HistoryController) lookup(w http.ResponseWriter, r *http.Request) (models.HistoryEntry, bool) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return models.HistoryEntry{}, false
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return models.HistoryEntry{}, false
	}

	entries, err := hc.history.List(r.Context(), state.User.Email)
	if err != nil {
		respondError(w, r, hc.logger, err)
		return models.HistoryEntry{}, false
	}
	entry, found := entries.Lookup(id)
	if !found {
		writeError(w, http.StatusNotFound, msgNotFound)
		return models.HistoryEntry{}, false
	}
	return entry, true
}
