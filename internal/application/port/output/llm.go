package output

import (
	"context"
	"errors"

	"askseer-mcp/internal/domain/entity"
)

var ErrEmptyCompletion = errors.New("model returned no text content")

// Completer is the language-model capability the evaluator depends on.
// Implementations make exactly one upstream call per Complete.
type Completer interface {
	Complete(ctx context.Context, messages []entity.Message, maxOutputTokens int) (string, error)
	Name() string
}
