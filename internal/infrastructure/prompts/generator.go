package prompts

import (
	"bytes"
	"fmt"
	"text/template"

	"askseer-mcp/internal/domain/entity"
)

type EvaluationPromptData struct {
	Heuristics []entity.Heuristic
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// GenerateInstruction renders baseTemplate with the heuristic rubric.
func GenerateInstruction(baseTemplate string, heuristics []entity.Heuristic) (string, error) {
	tmpl, err := template.New("evaluation").Funcs(funcs).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, EvaluationPromptData{Heuristics: heuristics}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Builder produces the evaluation message for a screenshot. The instruction
// is rendered once, so Build is a pure function of its input.
type Builder struct {
	instruction string
}

func NewBuilder() (*Builder, error) {
	instruction, err := GenerateInstruction(EvaluationPrompt, entity.Heuristics)
	if err != nil {
		return nil, fmt.Errorf("render evaluation prompt: %w", err)
	}
	return &Builder{instruction: instruction}, nil
}

func (b *Builder) Instruction() string {
	return b.instruction
}

// Build returns a single user message: the instruction text, then the image.
func (b *Builder) Build(shot *entity.Screenshot) []entity.Message {
	data := make([]byte, len(shot.Data))
	copy(data, shot.Data)

	return []entity.Message{
		{
			Role: entity.RoleUser,
			Parts: []entity.ContentPart{
				entity.TextPart(b.instruction),
				entity.ImagePart(data, entity.MimeTypePNG),
			},
		},
	}
}
