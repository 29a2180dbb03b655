// Package openai implements the generate contract on top of the OpenAI chat
// completion API.
package openai

import (
	"context"
	"fmt"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/mnemos-ai/mnemos/service/generate"
)

// Config carries the client settings.
type Config struct {
	APIKey string `json:"apiKey" yaml:"apiKey"`
	Model  string `json:"model" yaml:"model"`
}

// Service calls the OpenAI chat API for candidate content.
type Service struct {
	client *gopenai.Client
	model  string
}

// New creates an OpenAI-backed generator.
func New(config Config) (*Service, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	model := config.Model
	if model == "" {
		model = gopenai.GPT4oMini
	}
	return &Service{
		client: gopenai.NewClient(config.APIKey),
		model:  model,
	}, nil
}

// Generate produces one candidate for the input.
func (s *Service) Generate(ctx context.Context, input string, _ map[string]interface{}) (*generate.Candidate, error) {
	resp, err := s.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty completion")
	}
	return &generate.Candidate{
		Text: resp.Choices[0].Message.Content,
		Fields: map[string]interface{}{
			"model":    s.model,
			"provider": "openai",
		},
	}, nil
}

var _ generate.Service = (*Service)(nil)
