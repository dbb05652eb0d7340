package providers

import (
	"falci/internal/structures"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropicProvider builds the Messages API client from the inference
// section. An empty API key falls back to ANTHROPIC_API_KEY, read by the SDK.
func NewAnthropicProvider(conf *structures.Config) *anthropic.Client {
	return newAnthropicClient(conf, http.DefaultClient)
}

func newAnthropicClient(conf *structures.Config, httpClient *http.Client) *anthropic.Client {
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(conf.Inference.MaxRetries),
	}
	if conf.Inference.APIKey != "" {
		opts = append(opts, option.WithAPIKey(conf.Inference.APIKey))
	}
	if conf.Inference.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(conf.Inference.BaseURL))
	}
	if conf.Inference.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(conf.Inference.Timeout))
	}

	c := anthropic.NewClient(opts...)
	return &c
}
