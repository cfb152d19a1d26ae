package evaluator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"askseer-mcp/internal/domain/entity"
)

type rawFinding struct {
	Heuristic      *string `json:"heuristic"`
	Violated       *bool   `json:"violated"`
	Reason         string  `json:"reason"`
	Recommendation string  `json:"recommendation"`
}

// Translate turns the model completion into an Evaluation. In text mode the
// completion is returned verbatim.
func Translate(text string, mode entity.OutputMode) (*entity.Evaluation, error) {
	if mode == entity.OutputModeText {
		return &entity.Evaluation{Text: text}, nil
	}

	results, err := ParseFindings(text)
	if err != nil {
		return nil, err
	}

	pretty, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render findings: %w", err)
	}

	return &entity.Evaluation{
		Text:       string(pretty),
		Results:    results,
		Structured: true,
	}, nil
}

// ParseFindings decodes a JSON array of findings. A single markdown code
// fence around the array is tolerated; any other surrounding text is not.
func ParseFindings(text string) (entity.EvaluationResult, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if !strings.HasPrefix(body, "[") {
		return nil, errors.New("completion is not a JSON array")
	}

	var raw []rawFinding
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected content after JSON array")
	}

	results := make(entity.EvaluationResult, 0, len(raw))
	for i, f := range raw {
		if f.Heuristic == nil || strings.TrimSpace(*f.Heuristic) == "" {
			return nil, fmt.Errorf("finding %d: missing heuristic", i)
		}
		if f.Violated == nil {
			return nil, fmt.Errorf("finding %d: missing violated", i)
		}
		results = append(results, entity.HeuristicFinding{
			Heuristic:      *f.Heuristic,
			Violated:       *f.Violated,
			Reason:         f.Reason,
			Recommendation: f.Recommendation,
		})
	}
	return results, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// drop the info string, e.g. ```json
	if idx := strings.IndexByte(inner, '\n'); idx >= 0 {
		if lang := strings.TrimSpace(inner[:idx]); lang == "" || !strings.ContainsAny(lang, "[{") {
			inner = inner[idx+1:]
		}
	}
	return strings.TrimSpace(inner)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
