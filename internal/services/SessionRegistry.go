package services

import (
	"falci/internal/imaging"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/structures"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AppState is everything one signed-in user works with. It is created at
// login, replaced by the next login of the same account and dropped on
// logout or expiry.
type AppState struct {
	SessionID string
	User      *models.User
	Coffee    *ReadingPipeline
	Palm      *ReadingPipeline
	Chat      *ChatSession
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *AppState) Pipeline(kind models.ReadingKind) (*ReadingPipeline, error) {
	switch kind {
	case models.KindCoffee:
		return s.Coffee, nil
	case models.KindPalm:
		return s.Palm, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
}

type SessionRegistryInterface interface {
	Open(user *models.User) *AppState
	Get(id string) (*AppState, bool)
	Close(id string)
	Count() int
	// Sweep drops expired sessions and reports how many were removed.
	Sweep() int
}

type SessionRegistry struct {
	deps      PipelineDeps
	inference InferenceServiceInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*AppState
	byEmail  map[string]string
}

func NewSessionRegistry(conf *structures.Config, inference InferenceServiceInterface, history HistoryServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SessionRegistryInterface {
	return &SessionRegistry{
		deps: PipelineDeps{
			Inference:     inference,
			History:       history,
			Normalizer:    imaging.NewNormalizer(conf.Reading.MaxImageDimension, conf.Reading.MaxImagePixels),
			Logger:        logger,
			Metrics:       metrics,
			MaxImageBytes: conf.Reading.MaxImageBytes,
			Location:      readingLocation(conf),
		},
		inference: inference,
		logger:    logger,
		metrics:   metrics,
		ttl:       conf.Auth.TokenTTL,
		now:       time.Now,
		sessions:  make(map[string]*AppState),
		byEmail:   make(map[string]string),
	}
}

func (sr *SessionRegistry) Open(user *models.User) *AppState {
	now := sr.now()
	state := &AppState{
		SessionID: uuid.NewString(),
		User:      user,
		Coffee:    NewReadingPipeline(models.KindCoffee, user.Email, sr.deps),
		Palm:      NewReadingPipeline(models.KindPalm, user.Email, sr.deps),
		Chat:      NewChatSession(user.Name, sr.inference, sr.logger),
		CreatedAt: now,
		ExpiresAt: now.Add(sr.ttl),
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.sweepLocked(now)
	if prev, ok := sr.byEmail[user.Email]; ok {
		delete(sr.sessions, prev)
		sr.logger.Infof(providers.TypeApp, "Session %s of %s replaced", prev, user.Email)
	}
	sr.sessions[state.SessionID] = state
	sr.byEmail[user.Email] = state.SessionID
	sr.metrics.SetActiveSessions(len(sr.sessions))
	return state
}

func (sr *SessionRegistry) Get(id string) (*AppState, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.sweepLocked(sr.now())
	state, ok := sr.sessions[id]
	return state, ok
}

func (sr *SessionRegistry) Close(id string) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if state, ok := sr.sessions[id]; ok {
		sr.removeLocked(state)
		sr.metrics.SetActiveSessions(len(sr.sessions))
	}
}

func (sr *SessionRegistry) Count() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.sweepLocked(sr.now())
	return len(sr.sessions)
}

func (sr *SessionRegistry) Sweep() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.sweepLocked(sr.now())
}

func (sr *SessionRegistry) sweepLocked(now time.Time) int {
	removed := 0
	for _, state := range sr.sessions {
		if !now.Before(state.ExpiresAt) {
			sr.removeLocked(state)
			removed++
		}
	}
	if removed > 0 {
		sr.metrics.SetActiveSessions(len(sr.sessions))
	}
	return removed
}

func (sr *SessionRegistry) removeLocked(state *AppState) {
	delete(sr.sessions, state.SessionID)
	if sr.byEmail[state.User.Email] == state.SessionID {
		delete(sr.byEmail, state.User.Email)
	}
}
