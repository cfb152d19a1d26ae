package entity

type OutputMode string

const (
	OutputModeStructured OutputMode = "structured"
	OutputModeText       OutputMode = "text"
)

func (m OutputMode) Valid() bool {
	return m == OutputModeStructured || m == OutputModeText
}

// EvaluationRequest is the tool input. Exactly one of URL and Image is set.
type EvaluationRequest struct {
	URL   string `json:"url,omitempty" jsonschema:"absolute http(s) URL of the page to evaluate"`
	Image string `json:"image,omitempty" jsonschema:"base64-encoded PNG screenshot to evaluate instead of a URL"`
}

type RequestVariant string

const (
	VariantURL   RequestVariant = "url"
	VariantImage RequestVariant = "image"
)

// Target is a validated EvaluationRequest.
type Target struct {
	Variant RequestVariant
	URL     string
	Image   *Screenshot
}

// Source names the target in logs and user-facing messages.
func (t Target) Source() string {
	if t.Variant == VariantURL {
		return t.URL
	}
	return "supplied image"
}

// Evaluation is what one successful invocation produces.
type Evaluation struct {
	Text       string
	Results    EvaluationResult
	Structured bool
	Source     string
}

// Stage is a step of a single invocation.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageRendering   Stage = "rendering"
	StagePrompting   Stage = "prompting"
	StageInvoking    Stage = "invoking"
	StageTranslating Stage = "translating"
)
