package ai

import (
	"net/http"

	"Duet/core"

	openai "github.com/sashabaranov/go-openai"
)

const temperature = 0.7

// NewClient builds the OpenAI client shared by chat and image generation.
func NewClient(conf *core.Config) *openai.Client {
	config := openai.DefaultConfig(conf.OpenAIApiKey)
	if conf.OpenAIBaseURL != "" {
		config.BaseURL = conf.OpenAIBaseURL
	}
	config.HTTPClient = &http.Client{Timeout: conf.RequestTimeout}
	return openai.NewClientWithConfig(config)
}
