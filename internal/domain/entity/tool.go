package entity

type ToolName string

const ToolEvaluate ToolName = "evaluate"

func (t ToolName) String() string {
	return string(t)
}
