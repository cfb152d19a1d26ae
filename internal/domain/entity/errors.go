package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "ValidationError"
	KindNavigation      ErrorKind = "NavigationError"
	KindModelInvocation ErrorKind = "ModelInvocationError"
	KindResponseParse   ErrorKind = "ResponseParseError"
)

// Sentinels for errors.Is matching against an *EvaluationError.
var (
	ErrValidation      = errors.New("invalid evaluation request")
	ErrNavigation      = errors.New("page could not be loaded")
	ErrModelInvocation = errors.New("model invocation failed")
	ErrResponseParse   = errors.New("model response could not be parsed")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNavigation:
		return ErrNavigation
	case KindModelInvocation:
		return ErrModelInvocation
	case KindResponseParse:
		return ErrResponseParse
	default:
		return nil
	}
}

// EvaluationError is the terminal failure of one invocation.
type EvaluationError struct {
	Kind   ErrorKind
	Stage  Stage
	Target string
	Err    error
}

func NewEvaluationError(kind ErrorKind, stage Stage, target string, err error) *EvaluationError {
	return &EvaluationError{Kind: kind, Stage: stage, Target: target, Err: err}
}

func (e *EvaluationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s during %s of %s", e.Kind, e.Stage, e.Target)
	}
	return fmt.Sprintf("%s during %s of %s: %v", e.Kind, e.Stage, e.Target, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// UserMessage is the text shown to the tool caller. It names the target and
// the failing operation but never the wrapped cause.
func (e *EvaluationError) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		if e.Err != nil {
			return fmt.Sprintf("Invalid request: %v", e.Err)
		}
		return "Invalid request"
	case KindNavigation:
		return fmt.Sprintf("Failed to evaluate %s: page could not be loaded", e.Target)
	case KindModelInvocation:
		return fmt.Sprintf("Failed to evaluate %s: language model request failed", e.Target)
	case KindResponseParse:
		return fmt.Sprintf("Failed to evaluate %s: language model returned an unreadable evaluation", e.Target)
	default:
		return fmt.Sprintf("Failed to evaluate: %s", e.Target)
	}
}
