package prompts

import (
	_ "embed"
)

//go:embed evaluation.txt
var EvaluationPrompt string
