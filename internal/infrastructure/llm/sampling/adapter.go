// Package sampling asks the connected MCP client to run the completion
// (sampling/createMessage), so the server needs no model credentials.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var _ output.Completer = (*Adapter)(nil)

var ErrNoSession = errors.New("no MCP client session to sample from")

// MessageCreator is satisfied by *mcp.ServerSession.
type MessageCreator interface {
	CreateMessage(ctx context.Context, params *mcp.CreateMessageParams) (*mcp.CreateMessageResult, error)
}

type sessionKey struct{}

// ContextWithSession binds the session that issued the current tool call.
func ContextWithSession(ctx context.Context, session MessageCreator) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFromContext(ctx context.Context) (MessageCreator, bool) {
	session, ok := ctx.Value(sessionKey{}).(MessageCreator)
	return session, ok && session != nil
}

type Adapter struct {
	logger output.LoggerPort
}

func NewAdapter(logger output.LoggerPort) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Name() string {
	return "sampling"
}

func (a *Adapter) Complete(ctx context.Context, messages []entity.Message, maxOutputTokens int) (string, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}

	res, err := session.CreateMessage(ctx, &mcp.CreateMessageParams{
		Messages:  convertMessages(messages),
		MaxTokens: int64(maxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("sampling request failed: %w", err)
	}
	if res == nil || res.Content == nil {
		return "", fmt.Errorf("sampling returned an empty result")
	}

	if a.logger != nil {
		a.logger.Debug("Sampling result", "model", res.Model, "stopReason", res.StopReason)
	}

	text, ok := res.Content.(*mcp.TextContent)
	if !ok {
		return "", fmt.Errorf("sampling returned %T content, want text", res.Content)
	}
	if strings.TrimSpace(text.Text) == "" {
		return "", output.ErrEmptyCompletion
	}
	return text.Text, nil
}

// convertMessages emits one sampling message per part, since a sampling
// message holds a single content block.
func convertMessages(messages []entity.Message) []*mcp.SamplingMessage {
	var result []*mcp.SamplingMessage
	for _, msg := range messages {
		for _, part := range msg.Parts {
			var content mcp.Content
			switch part.Type {
			case entity.ContentTypeText:
				content = &mcp.TextContent{Text: part.Text}
			case entity.ContentTypeImage:
				content = &mcp.ImageContent{Data: part.Data, MIMEType: part.MimeType}
			default:
				continue
			}
			result = append(result, &mcp.SamplingMessage{
				Role:    mcp.Role(msg.Role),
				Content: content,
			})
		}
	}
	return result
}
