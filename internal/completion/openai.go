// Package completion relays chat messages to the OpenAI completion API.
// Each relay is a single upstream call: no retries, no streaming.
package completion

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/insights-workflows/api-service/internal/config"
	"github.com/insights-workflows/api-service/pkg/models"
)

// Client produces an assistant reply for a user message given the prior
// chat history. Handlers depend on this interface so tests can stub the
// upstream call.
type Client interface {
	Reply(ctx context.Context, userName string, history []models.ChatTurn, userMessage string) (string, error)
}

// OpenAIClient implements Client against the OpenAI chat completions API
// with a fixed model, token cap, and temperature.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIClient builds the relay client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Reply sends the system prompt, prior history, and the new user message
// upstream and returns the assistant's text.
func (c *OpenAIClient) Reply(ctx context.Context, userName string, history []models.ChatTurn, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    BuildMessages(userName, history, userMessage),
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildMessages assembles the upstream message list: a system message
// embedding the caller's display name, the prior history in order, then
// the new user message.
func BuildMessages(userName string, history []models.ChatTurn, userMessage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf("Hi, my name is %s", userName),
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}
