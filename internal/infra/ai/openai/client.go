package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bizsimlab/venture-sim/internal/infra/ai/prompt"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama3-8b-8192"

	maxTokens      = 1000
	temperature    = 0.7
	topP           = 0.9
	requestTimeout = 30 * time.Second
)

// Client talks to an OpenAI-compatible chat-completion endpoint (Groq by
// default). Endpoint, key and model are injected so tests can substitute a
// local server.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

func NewClient(apiKey, baseURL, model string, log *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultBaseURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	if model == "" {
		model = defaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, log: log}
}

// Simulate runs the feasibility analysis. It never fails outward: transport
// errors, non-2xx responses and timeouts all degrade to a fallback result,
// and malformed completions go through the recovery parse ladder.
func (c *Client) Simulate(ctx context.Context, s *domain.Scenario) *domain.SimulationResult {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(s)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
		Stream:      false,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.Warn("chat completion failed",
			zap.String("scenario_id", string(s.ID)),
			zap.Error(err),
		)
		return domain.ServiceFailureResult(err)
	}
	if len(resp.Choices) == 0 {
		return domain.ServiceFailureResult(errors.New("completion response has no choices"))
	}

	return parseSimulation(resp.Choices[0].Message.Content)
}
