package input

import (
	"context"

	"askseer-mcp/internal/domain/entity"
)

type Evaluator interface {
	Evaluate(ctx context.Context, req entity.EvaluationRequest) (*entity.Evaluation, error)
	OutputMode() entity.OutputMode
}
