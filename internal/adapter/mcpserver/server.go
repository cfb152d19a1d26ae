// Package mcpserver exposes the evaluator as an MCP tool.
package mcpserver

import (
	"context"
	"errors"
	"net/http"

	"askseer-mcp/internal/application/port/input"
	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/llm/sampling"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "askseer-mcp"
	ServerVersion = "1.0.0"

	toolTitle       = "Heuristic Evaluation"
	toolDescription = "A tool that uses LLM to evaluate a UI based on a set of heuristics"
)

// EvaluateOutput is the structured tool result.
type EvaluateOutput struct {
	Results entity.EvaluationResult `json:"results" jsonschema:"one finding per heuristic, in the order the model returned them"`
}

type Server struct {
	server    *mcp.Server
	evaluator input.Evaluator
	logger    output.LoggerPort
}

func NewServer(evaluator input.Evaluator, logger output.LoggerPort) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Title:   "askseer",
			Version: ServerVersion,
		}, nil),
		evaluator: evaluator,
		logger:    logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	tool := &mcp.Tool{
		Name:        entity.ToolEvaluate.String(),
		Title:       toolTitle,
		Description: toolDescription,
	}

	if s.evaluator.OutputMode() == entity.OutputModeStructured {
		mcp.AddTool(s.server, tool, s.handleStructured)
		return
	}
	mcp.AddTool(s.server, tool, s.handleText)
}

func (s *Server) handleStructured(ctx context.Context, req *mcp.CallToolRequest, in entity.EvaluationRequest) (*mcp.CallToolResult, EvaluateOutput, error) {
	eval, err := s.evaluate(ctx, req, in)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	results := eval.Results
	if results == nil {
		results = entity.EvaluationResult{}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: eval.Text}},
	}, EvaluateOutput{Results: results}, nil
}

func (s *Server) handleText(ctx context.Context, req *mcp.CallToolRequest, in entity.EvaluationRequest) (*mcp.CallToolResult, any, error) {
	eval, err := s.evaluate(ctx, req, in)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: eval.Text}},
	}, nil, nil
}

// evaluate binds the calling session for sampling and reduces failures to
// their user message. The SDK turns a returned error into an isError result.
func (s *Server) evaluate(ctx context.Context, req *mcp.CallToolRequest, in entity.EvaluationRequest) (*entity.Evaluation, error) {
	if req != nil && req.Session != nil {
		ctx = sampling.ContextWithSession(ctx, req.Session)
	}

	eval, err := s.evaluator.Evaluate(ctx, in)
	if err != nil {
		var evalErr *entity.EvaluationError
		if errors.As(err, &evalErr) {
			return nil, errors.New(evalErr.UserMessage())
		}
		s.logger.Error("Unclassified evaluation failure", "error", err)
		return nil, errors.New("Failed to evaluate: internal error")
	}
	return eval, nil
}

// Run serves a single session on transport until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server is running", "tool", entity.ToolEvaluate.String(), "output_mode", string(s.evaluator.OutputMode()))
	return s.server.Run(ctx, transport)
}

// Connect starts a session without blocking; used by in-process clients.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// HTTPHandler serves the streamable HTTP transport on /mcp.
func (s *Server) HTTPHandler() http.Handler {
	httpLogger := httplog.NewLogger(ServerName, httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(httpLogger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)

	return r
}
