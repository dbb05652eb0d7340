package providers

import (
	"bytes"
	"context"
	"falci/internal/structures"
	"io"
	"net/http"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	requests []*http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.requests = append(rt.requests, req)
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"content":[{"type":"text","text":"ok"}],"role":"assistant"}`))),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func TestAnthropicProvider_AppliesConfig(t *testing.T) {
	rt := &recordingTransport{}
	conf := &structures.Config{Inference: structures.InferenceConfig{
		APIKey:  "test-key",
		BaseURL: "http://inference.local/",
	}}

	client := newAnthropicClient(conf, &http.Client{Transport: rt})
	_, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model("claude-sonnet-4-20250514"),
		MaxTokens: 10,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("merhaba"))},
	})
	require.NoError(t, err)

	require.Len(t, rt.requests, 1)
	assert.Equal(t, "inference.local", rt.requests[0].URL.Host)
	assert.Equal(t, "test-key", rt.requests[0].Header.Get("X-Api-Key"))
}

func TestNewAnthropicProvider_NotNil(t *testing.T) {
	conf := &structures.Config{Inference: structures.InferenceConfig{APIKey: "k"}}
	assert.NotNil(t, NewAnthropicProvider(conf))
}
