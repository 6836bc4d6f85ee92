// Package llm wraps an OpenAI-compatible endpoint for chat completion
// and text embedding.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"docqa/internal/config"
)

var (
	// ErrEmbedding marks any failure of the embedding capability.
	ErrEmbedding = errors.New("embedding request failed")
	// ErrGeneration marks any failure of the text generation capability.
	ErrGeneration = errors.New("generation request failed")
)

// Client talks to an OpenAI-compatible server (hosted OpenAI, LM Studio,
// Ollama). A token-bucket limiter paces all outgoing calls.
type Client struct {
	client     *openai.Client
	embedModel string
	chatModel  string
	limiter    *rate.Limiter
}

// NewClient builds a client from config.
func NewClient(cfg *config.Config) *Client {
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	oaiCfg.BaseURL = cfg.LLMBaseURL

	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 4
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		client:     openai.NewClientWithConfig(oaiCfg),
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Embedding returns the embedding vector for text.
func (c *Client) Embedding(ctx context.Context, text string) ([]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embedModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrEmbedding)
	}
	return resp.Data[0].Embedding, nil
}

// Chat sends a system+user prompt pair and returns the trimmed reply.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion returned", ErrGeneration)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ListModels returns the models available on the endpoint. Useful when
// running against a local LM Studio instance.
func (c *Client) ListModels(ctx context.Context) ([]openai.Model, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Models, nil
}
