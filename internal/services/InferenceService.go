package services

import (
	"context"
	"encoding/base64"
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/structures"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// FallbackText is returned when the service answers without any text.
const FallbackText = "Yanıt alınamadı."

type InferenceServiceInterface interface {
	Complete(ctx context.Context, persona string, messages []models.InferenceMessage) (string, error)
}

type messagesClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type InferenceService struct {
	client    messagesClient
	model     anthropic.Model
	maxTokens int64
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewInferenceService(conf *structures.Config, client *anthropic.Client, logger providers.Logger, metrics providers.MetricsProviderInterface) InferenceServiceInterface {
	return &InferenceService{
		client:    &client.Messages,
		model:     anthropic.Model(conf.Inference.Model),
		maxTokens: conf.Inference.MaxTokens,
		logger:    logger,
		metrics:   metrics,
	}
}

// Complete sends the conversation under persona and joins every text block of
// the answer. Leading assistant turns are dropped since a conversation must
// open with the user.
func (is *InferenceService) Complete(ctx context.Context, persona string, messages []models.InferenceMessage) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     is.model,
		MaxTokens: is.maxTokens,
		Messages:  toMessageParams(messages),
	}
	if persona != "" {
		params.System = []anthropic.TextBlockParam{{Text: persona}}
	}
	if len(params.Messages) == 0 {
		return "", &InferenceError{Reason: "no user message to send"}
	}

	start := time.Now()
	msg, err := is.client.New(ctx, params)
	is.metrics.ObserveInferenceDuration(time.Since(start))
	if err != nil {
		is.metrics.IncInferenceFailures()
		ierr := &InferenceError{Reason: failureReason(ctx, err), Err: err}
		is.logger.Errorf(providers.TypeAI, "Inference request failed: %s", ierr)
		return "", ierr
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		is.logger.Warnf(providers.TypeAI, "Inference answer without text, stop reason %q", msg.StopReason)
		return FallbackText, nil
	}
	is.logger.Debugf(providers.TypeAI, "Inference answered %d bytes in %s", sb.Len(), time.Since(start))
	return sb.String(), nil
}

func toMessageParams(messages []models.InferenceMessage) []anthropic.MessageParam {
	first := 0
	for first < len(messages) && messages[first].Role != models.RoleUser {
		first++
	}

	out := make([]anthropic.MessageParam, 0, len(messages)-first)
	for _, m := range messages[first:] {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Blocks))
		for _, b := range m.Blocks {
			switch b.Type {
			case models.BlockImage:
				blocks = append(blocks, anthropic.NewImageBlockBase64(b.MediaType, base64.StdEncoding.EncodeToString(b.Data)))
			default:
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			}
		}
		if m.Role == models.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func failureReason(ctx context.Context, err error) string {
	var apiErr *anthropic.Error
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("api status %d", apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}
