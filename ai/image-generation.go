package ai

import (
	"context"
	"log/slog"
	"time"

	"Duet/core"
	"Duet/lib/sl"

	openai "github.com/sashabaranov/go-openai"
)

// Painter generates one image per prompt and returns its URL.
type Painter struct {
	client  *openai.Client
	model   string
	size    string
	timeout time.Duration
	log     *slog.Logger
}

func NewPainter(conf *core.Config, client *openai.Client, log *slog.Logger) *Painter {
	return &Painter{
		client:  client,
		model:   conf.ImageModel,
		size:    conf.ImageSize,
		timeout: conf.RequestTimeout,
		log:     log.With(sl.Module("painter")),
	}
}

func (p *Painter) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Model:          p.model,
		Prompt:         prompt,
		N:              1,
		Size:           p.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", newFailure("image generation", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", &Failure{Op: "image generation", Err: core.ErrEmptyResponse}
	}

	if revised := resp.Data[0].RevisedPrompt; revised != "" {
		p.log.Debug("revised prompt", sl.Text(revised))
	}
	return resp.Data[0].URL, nil
}
