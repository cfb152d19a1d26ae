// Package anthropic completes evaluation prompts with the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var _ output.Completer = (*Adapter)(nil)

const DefaultModel = "claude-sonnet-4-5"

type Config struct {
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
	APIKey  string
	Model   string
}

type Adapter struct {
	client sdk.Client
	model  string
}

func NewAdapter(cfg Config) *Adapter {
	// one call per invocation, failures are surfaced instead of retried
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Adapter{
		client: sdk.NewClient(opts...),
		model:  model,
	}
}

func (a *Adapter) Name() string {
	return "anthropic"
}

func (a *Adapter) Complete(ctx context.Context, messages []entity.Message, maxOutputTokens int) (string, error) {
	resp, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: int64(maxOutputTokens),
		Messages:  convertMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", output.ErrEmptyCompletion
	}
	return text, nil
}

func convertMessages(messages []entity.Message) []sdk.MessageParam {
	result := make([]sdk.MessageParam, 0, len(messages))
	for _, msg := range messages {
		blocks := make([]sdk.ContentBlockParamUnion, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Type {
			case entity.ContentTypeText:
				blocks = append(blocks, sdk.NewTextBlock(part.Text))
			case entity.ContentTypeImage:
				blocks = append(blocks, sdk.NewImageBlockBase64(part.MimeType, base64.StdEncoding.EncodeToString(part.Data)))
			}
		}

		if msg.Role == entity.RoleAssistant {
			result = append(result, sdk.NewAssistantMessage(blocks...))
		} else {
			result = append(result, sdk.NewUserMessage(blocks...))
		}
	}
	return result
}
