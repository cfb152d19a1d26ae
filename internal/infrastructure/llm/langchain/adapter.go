// Package langchain completes evaluation prompts through a langchaingo
// model, by default its OpenAI-compatible client.
package langchain

import (
	"context"
	"fmt"
	"strings"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

var _ output.Completer = (*Adapter)(nil)

const DefaultModel = "gpt-4o-mini"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Adapter struct {
	model llms.Model
}

func NewAdapter(cfg Config) (*Adapter, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain openai client: %w", err)
	}
	return NewWithModel(llm), nil
}

// NewWithModel wraps any langchaingo model.
func NewWithModel(model llms.Model) *Adapter {
	return &Adapter{model: model}
}

func (a *Adapter) Name() string {
	return "langchain"
}

func (a *Adapter) Complete(ctx context.Context, messages []entity.Message, maxOutputTokens int) (string, error) {
	resp, err := a.model.GenerateContent(ctx, convertMessages(messages), llms.WithMaxTokens(maxOutputTokens))
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Content
	if strings.TrimSpace(content) == "" {
		return "", output.ErrEmptyCompletion
	}
	return content, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		if msg.Role == entity.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}

		parts := make([]llms.ContentPart, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Type {
			case entity.ContentTypeText:
				parts = append(parts, llms.TextContent{Text: part.Text})
			case entity.ContentTypeImage:
				parts = append(parts, llms.ImageURLContent{URL: part.DataURL()})
			}
		}

		result = append(result, llms.MessageContent{Role: role, Parts: parts})
	}
	return result
}
