package controllers

import (
	"context"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"net/http"
	"strings"
	"time"
)

type sessionKey struct{}

type AuthController struct {
	logger      providers.Logger
	credentials services.CredentialServiceInterface
	registry    services.SessionRegistryInterface
	tokens      providers.TokenProviderInterface
}

type authResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

func NewAuthController(logger providers.Logger, credentials services.CredentialServiceInterface, registry services.SessionRegistryInterface, tokens providers.TokenProviderInterface) *AuthController {
	return &AuthController{
		logger:      logger,
		credentials: credentials,
		registry:    registry,
		tokens:      tokens,
	}
}

func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest
	if !decodeBody(w, r, &payload) {
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)

	user, err := ac.credentials.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, ac.logger, err)
		return
	}
	ac.openSession(w, r, user, http.StatusCreated)
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest
	if !decodeBody(w, r, &payload) {
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)

	user, err := ac.credentials.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, ac.logger, err)
		return
	}
	ac.openSession(w, r, user, http.StatusOK)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	ac.registry.Close(state.SessionID)
	ac.logger.Infof(providers.TypePost, "Session %s of %s closed", state.SessionID, state.User.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AuthController) openSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	state := ac.registry.Open(user)
	token, expiresAt, err := ac.tokens.Issue(state.SessionID, user.Email)
	if err != nil {
		ac.registry.Close(state.SessionID)
		respondError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, status, authResponse{Token: token, ExpiresAt: expiresAt, User: user.Public()})
}

// RequireSession resolves the bearer token to the caller's AppState and
// rejects the request with 401 when there is none.
func (ac *AuthController) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		claims, err := ac.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Rejected token: %s", err)
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		state, ok := ac.registry.Get(claims.SessionID)
		if !ok || state.User.Email != claims.Email {
			writeError(w, http.StatusUnauthorized, msgSessionExpired)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, state)))
	})
}

func SessionFromContext(ctx context.Context) (*services.AppState, bool) {
	state, ok := ctx.Value(sessionKey{}).(*services.AppState)
	return state, ok && state != nil
}
