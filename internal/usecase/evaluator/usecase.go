package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"askseer-mcp/internal/application/port/input"
	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/prompts"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxOutputTokens   = 1000
	DefaultNavigationTimeout = 30 * time.Second
)

var _ input.Evaluator = (*UseCase)(nil)

type Config struct {
	OutputMode        entity.OutputMode
	MaxOutputTokens   int
	NavigationTimeout time.Duration
}

type UseCase struct {
	browser   output.BrowserPort
	completer output.Completer
	prompts   *prompts.Builder
	metrics   output.MetricsPort
	tracer    trace.Tracer
	logger    output.LoggerPort
	cfg       Config
}

type Option func(*UseCase)

func WithMetrics(m output.MetricsPort) Option {
	return func(uc *UseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(uc *UseCase) {
		if t != nil {
			uc.tracer = t
		}
	}
}

func New(
	browser output.BrowserPort,
	completer output.Completer,
	logger output.LoggerPort,
	cfg Config,
	opts ...Option,
) (*UseCase, error) {
	if cfg.OutputMode == "" {
		cfg.OutputMode = entity.OutputModeStructured
	}
	if !cfg.OutputMode.Valid() {
		return nil, fmt.Errorf("unknown output mode %q", cfg.OutputMode)
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}

	builder, err := prompts.NewBuilder()
	if err != nil {
		return nil, err
	}

	uc := &UseCase{
		browser:   browser,
		completer: completer,
		prompts:   builder,
		metrics:   output.NopMetrics{},
		tracer:    otel.Tracer("askseer-mcp/evaluator"),
		logger:    logger.Named("evaluator"),
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

func (uc *UseCase) OutputMode() entity.OutputMode {
	return uc.cfg.OutputMode
}

// Evaluate runs one invocation: validate, render (URL only), prompt, invoke
// the model, translate. Every failure is an *entity.EvaluationError.
func (uc *UseCase) Evaluate(ctx context.Context, req entity.EvaluationRequest) (*entity.Evaluation, error) {
	start := time.Now()
	log := uc.logger.WithField("invocation_id", uuid.NewString())

	ctx, span := uc.tracer.Start(ctx, "evaluate "+string(entity.ToolEvaluate),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.system", uc.completer.Name()),
			attribute.Int("gen_ai.request.max_tokens", uc.cfg.MaxOutputTokens),
			attribute.String("askseer.output_mode", string(uc.cfg.OutputMode)),
		))
	defer span.End()

	result, variant, err := uc.evaluate(ctx, req, log)

	outcome := "success"
	if err != nil {
		var evalErr *entity.EvaluationError
		if errors.As(err, &evalErr) {
			outcome = string(evalErr.Kind)
			span.SetAttributes(attribute.String("askseer.failed_stage", string(evalErr.Stage)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Error("Evaluation failed", "variant", variant, "error", err)
	} else {
		span.SetAttributes(attribute.Int("askseer.findings", len(result.Results)))
		log.Info("Evaluation completed",
			"source", result.Source,
			"structured", result.Structured,
			"findings", len(result.Results),
			"duration", time.Since(start),
		)
	}
	span.SetAttributes(attribute.String("askseer.variant", variant))
	uc.metrics.RecordEvaluation(ctx, outcome, variant, time.Since(start))

	return result, err
}

func (uc *UseCase) evaluate(ctx context.Context, req entity.EvaluationRequest, log output.LoggerPort) (*entity.Evaluation, string, error) {
	target, err := Validate(req)
	if err != nil {
		return nil, "invalid", entity.NewEvaluationError(entity.KindValidation, entity.StageValidating, "request", err)
	}
	variant := string(target.Variant)
	source := target.Source()
	log = log.WithFields(map[string]any{"variant": variant, "source": source})
	log.Info("Evaluation started")

	shot := target.Image
	if target.Variant == entity.VariantURL {
		log.Debug("Rendering page", "timeout", uc.cfg.NavigationTimeout)
		shot, err = uc.capture(ctx, target.URL, log)
		if err != nil {
			return nil, variant, entity.NewEvaluationError(entity.KindNavigation, entity.StageRendering, source, err)
		}
		log.Debug("Page captured", "width", shot.Width, "height", shot.Height, "bytes", len(shot.Data))
	}

	messages := uc.prompts.Build(shot)

	log.Debug("Invoking model", "completer", uc.completer.Name(), "max_output_tokens", uc.cfg.MaxOutputTokens)
	text, err := uc.completer.Complete(ctx, messages, uc.cfg.MaxOutputTokens)
	if err == nil && isBlank(text) {
		err = output.ErrEmptyCompletion
	}
	if err != nil {
		return nil, variant, entity.NewEvaluationError(entity.KindModelInvocation, entity.StageInvoking, source, err)
	}
	log.Debug("Model response", "response", text)

	evaluation, err := Translate(text, uc.cfg.OutputMode)
	if err != nil {
		return nil, variant, entity.NewEvaluationError(entity.KindResponseParse, entity.StageTranslating, source, err)
	}
	evaluation.Source = source

	for _, finding := range evaluation.Results {
		if !entity.IsKnownHeuristic(finding.Heuristic) {
			log.Warn("Model reported an unknown heuristic", "heuristic", finding.Heuristic)
		}
	}

	return evaluation, variant, nil
}
