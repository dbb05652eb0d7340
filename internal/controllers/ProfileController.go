package controllers

import (
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"net/http"
	"time"
)

type ProfileController struct {
	logger  providers.Logger
	history services.HistoryServiceInterface
	now     func() time.Time
}

type profileResponse struct {
	User  models.PublicUser   `json:"user"`
	Stats models.ProfileStats `json:"stats"`
}

func NewProfileController(logger providers.Logger, history services.HistoryServiceInterface) *ProfileController {
	return &ProfileController{logger: logger, history: history, now: time.Now}
}

func (pc *ProfileController) Profile(w http.ResponseWriter, r *http.Request) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	stats, err := pc.history.Stats(r.Context(), state.User, pc.now())
	if err != nil {
		respondError(w, r, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: state.User.Public(), Stats: stats})
}
