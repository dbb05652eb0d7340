package services

import (
	"context"
	"falci/internal/models"
	"falci/internal/providers"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// ChatSession keeps an in-memory transcript that opens with a greeting.
type ChatSession struct {
	userName  string
	inference InferenceServiceInterface
	logger    providers.Logger

	inFlight atomic.Bool

	mu         sync.Mutex
	transcript []models.ChatMessage
}

func NewChatSession(userName string, inference InferenceServiceInterface, logger providers.Logger) *ChatSession {
	return &ChatSession{
		userName:  userName,
		inference: inference,
		logger:    logger,
		transcript: []models.ChatMessage{
			{Role: models.RoleAssistant, Text: chatGreetingFor(userName)},
		},
	}
}

// Send appends text and the reply to the transcript. When inference fails
// the reply is ChatFailureText and the inference error is returned with it,
// so an accepted send always grows the transcript by two, even when the
// caller goes away mid-send.
func (cs *ChatSession) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, &ValidationError{Fields: []string{"text"}}
	}
	if !cs.inFlight.CompareAndSwap(false, true) {
		return models.ChatMessage{}, ErrSendInFlight
	}
	defer cs.inFlight.Store(false)
	ctx = context.WithoutCancel(ctx)

	cs.mu.Lock()
	cs.transcript = append(cs.transcript, models.ChatMessage{Role: models.RoleUser, Text: text})
	messages := make([]models.InferenceMessage, len(cs.transcript))
	for i, m := range cs.transcript {
		messages[i] = models.InferenceMessage{Role: m.Role, Blocks: []models.ContentBlock{models.TextBlock(m.Text)}}
	}
	cs.mu.Unlock()

	reply, err := cs.inference.Complete(ctx, chatPersonaFor(cs.userName), messages)
	if err != nil {
		cs.logger.Warnf(providers.TypeAI, "Chat reply for %s failed: %s", cs.userName, err)
		reply = ChatFailureText
	}

	msg := models.ChatMessage{Role: models.RoleAssistant, Text: reply}
	cs.mu.Lock()
	cs.transcript = append(cs.transcript, msg)
	cs.mu.Unlock()
	return msg, err
}

func (cs *ChatSession) Transcript() []models.ChatMessage {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]models.ChatMessage, len(cs.transcript))
	copy(out, cs.transcript)
	return out
}

func (cs *ChatSession) Busy() bool {
	return cs.inFlight.Load()
}
