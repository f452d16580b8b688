package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"Duet/core"
	"Duet/lib/sl"

	openai "github.com/sashabaranov/go-openai"
)

type ChatGPT struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

func NewChat(conf *core.Config, client *openai.Client, log *slog.Logger) *ChatGPT {
	return &ChatGPT{
		client:  client,
		model:   conf.ChatModel,
		timeout: conf.RequestTimeout,
		log:     log.With(sl.Module("chat-gpt")),
	}
}

// Complete sends the turns as one chat completion request and returns the
// assistant reply.
func (c *ChatGPT) Complete(ctx context.Context, turns []core.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", newFailure("chat completion", err)
	}

	c.log.With(
		slog.String("model", resp.Model),
		slog.Int("choices", len(resp.Choices)),
		slog.Int("tokens", resp.Usage.TotalTokens),
	).Debug("chat completion")

	if len(resp.Choices) == 0 {
		return "", &Failure{Op: "chat completion", Err: core.ErrEmptyResponse}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &Failure{Op: "chat completion", Err: core.ErrEmptyResponse}
	}
	return content, nil
}
