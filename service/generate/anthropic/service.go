// Package anthropic implements the generate contract on top of the Anthropic
// messages API.
package anthropic

import (
	"context"
	"fmt"

	ganthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/mnemos-ai/mnemos/service/generate"
)

// Config carries the client settings.
type Config struct {
	APIKey    string `json:"apiKey" yaml:"apiKey"`
	Model     string `json:"model" yaml:"model"`
	MaxTokens int    `json:"maxTokens" yaml:"maxTokens"`
}

// Service calls the Anthropic messages API for candidate content.
type Service struct {
	client    *ganthropic.Client
	model     ganthropic.Model
	maxTokens int
}

// New creates an Anthropic-backed generator.
func New(config Config) (*Service, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	model := ganthropic.Model(config.Model)
	if model == "" {
		model = ganthropic.ModelClaude3Dot5SonnetLatest
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Service{
		client:    ganthropic.NewClient(config.APIKey),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Generate produces one candidate for the input.
func (s *Service) Generate(ctx context.Context, input string, _ map[string]interface{}) (*generate.Candidate, error) {
	resp, err := s.client.CreateMessages(ctx, ganthropic.MessagesRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []ganthropic.Message{
			ganthropic.NewUserTextMessage(input),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: completion failed: %w", err)
	}
	text := resp.GetFirstContentText()
	if text == "" {
		return nil, fmt.Errorf("anthropic: empty completion")
	}
	return &generate.Candidate{
		Text: text,
		Fields: map[string]interface{}{
			"model":    string(s.model),
			"provider": "anthropic",
		},
	}, nil
}

var _ generate.Service = (*Service)(nil)
