package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/pkg/anthropic"
	"github.com/RoelRotti/legionella-exploration-milestone/pkg/openai"
)

// Backend produces a free-text completion for an extraction prompt. Both
// extraction backends sit behind this so the extractor can be exercised with
// fakes.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type openAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend wraps an OpenAI client as the primary extraction backend.
// An empty model uses the client default.
func NewOpenAIBackend(client openai.Client, model string) Backend {
	return &openAIBackend{client: client, model: model}
}

func (b *openAIBackend) Name() string { return "gpt" }

func (b *openAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("pipeline: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicBackend wraps an Anthropic client as the secondary extraction
// backend.
func NewAnthropicBackend(client anthropic.Client, model string, maxTokens int64) Backend {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &anthropicBackend{client: client, model: model, maxTokens: maxTokens}
}

func (b *anthropicBackend) Name() string { return "sonnet" }

func (b *anthropicBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogUsage(b.model, "extract")
	return resp.Text(), nil
}
