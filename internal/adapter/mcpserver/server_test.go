package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/llm/sampling"
	"askseer-mcp/internal/infrastructure/logger"
	"askseer-mcp/internal/usecase/evaluator"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	mode   entity.OutputMode
	result *entity.Evaluation
	err    error

	calls int
	req   entity.EvaluationRequest
	ctx   context.Context
}

func (f *fakeEvaluator) OutputMode() entity.OutputMode { return f.mode }

func (f *fakeEvaluator) Evaluate(ctx context.Context, req entity.EvaluationRequest) (*entity.Evaluation, error) {
	f.calls++
	f.req = req
	f.ctx = ctx
	return f.result, f.err
}

func connect(t *testing.T, s *Server, opts *mcp.ClientOptions) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, opts)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestListTools(t *testing.T) {
	for _, mode := range []entity.OutputMode{entity.OutputModeStructured, entity.OutputModeText} {
		t.Run(string(mode), func(t *testing.T) {
			session := connect(t, NewServer(&fakeEvaluator{mode: mode}, logger.NewNop()), nil)

			res, err := session.ListTools(context.Background(), nil)
			require.NoError(t, err)
			require.Len(t, res.Tools, 1)

			tool := res.Tools[0]
			assert.Equal(t, "evaluate", tool.Name)
			assert.Equal(t, "Heuristic Evaluation", tool.Title)
			assert.NotNil(t, tool.InputSchema)
			if mode == entity.OutputModeStructured {
				assert.NotNil(t, tool.OutputSchema)
			} else {
				assert.Nil(t, tool.OutputSchema)
			}
		})
	}
}

func TestCallTool_Structured(t *testing.T) {
	results := entity.EvaluationResult{
		{Heuristic: "Visibility of system status", Violated: false, Reason: "Status is clear"},
		{Heuristic: "Error prevention", Violated: true, Reason: "No confirmation", Recommendation: "Confirm deletes"},
	}
	eval := &fakeEvaluator{
		mode:   entity.OutputModeStructured,
		result: &entity.Evaluation{Text: "pretty json", Results: results, Structured: true, Source: "https://example.com"},
	}
	session := connect(t, NewServer(eval, logger.NewNop()), nil)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"url": "https://example.com"},
	})
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, "pretty json", textOf(t, res))
	assert.Equal(t, entity.EvaluationRequest{URL: "https://example.com"}, eval.req)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content is %T", res.StructuredContent)
	findings, ok := structured["results"].([]any)
	require.True(t, ok)
	require.Len(t, findings, 2)
	first := findings[0].(map[string]any)
	assert.Equal(t, false, first["violated"])
	assert.NotContains(t, first, "recommendation")
	assert.Equal(t, "Confirm deletes", findings[1].(map[string]any)["recommendation"])
}

func TestCallTool_Text(t *testing.T) {
	eval := &fakeEvaluator{
		mode:   entity.OutputModeText,
		result: &entity.Evaluation{Text: "free-form review"},
	}
	session := connect(t, NewServer(eval, logger.NewNop()), nil)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"image": "aGVsbG8="},
	})
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, "free-form review", textOf(t, res))
	assert.Nil(t, res.StructuredContent)
	assert.Equal(t, "aGVsbG8=", eval.req.Image)
}

func TestCallTool_ErrorHidesCause(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED at 10.0.0.7")
	eval := &fakeEvaluator{
		mode: entity.OutputModeStructured,
		err:  entity.NewEvaluationError(entity.KindNavigation, entity.StageRendering, "https://nope.invalid", cause),
	}
	session := connect(t, NewServer(eval, logger.NewNop()), nil)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"url": "https://nope.invalid"},
	})
	require.NoError(t, err)

	assert.True(t, res.IsError)
	text := textOf(t, res)
	assert.Equal(t, "Failed to evaluate https://nope.invalid: page could not be loaded", text)
	assert.NotContains(t, text, "10.0.0.7")
}

func TestCallTool_UnclassifiedError(t *testing.T) {
	eval := &fakeEvaluator{mode: entity.OutputModeText, err: errors.New("secret detail")}
	session := connect(t, NewServer(eval, logger.NewNop()), nil)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"url": "https://example.com"},
	})
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.NotContains(t, textOf(t, res), "secret detail")
}

func TestCallTool_BindsSamplingSession(t *testing.T) {
	eval := &fakeEvaluator{mode: entity.OutputModeText, result: &entity.Evaluation{Text: "ok"}}
	session := connect(t, NewServer(eval, logger.NewNop()), nil)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"url": "https://example.com"},
	})
	require.NoError(t, err)

	_, ok := sampling.SessionFromContext(eval.ctx)
	assert.True(t, ok)
}

func samplePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCallTool_SamplingRoundTrip(t *testing.T) {
	var sampled *mcp.CreateMessageParams
	opts := &mcp.ClientOptions{
		CreateMessageHandler: func(ctx context.Context, req *mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
			sampled = req.Params
			parts := make([]string, 0, len(entity.Heuristics))
			for _, h := range entity.Heuristics {
				parts = append(parts, fmt.Sprintf(`{"heuristic":%q,"violated":false,"reason":"Fine"}`, h.Name))
			}
			return &mcp.CreateMessageResult{
				Model:   "client-model",
				Role:    "assistant",
				Content: &mcp.TextContent{Text: "[" + strings.Join(parts, ",") + "]"},
			}, nil
		},
	}

	uc, err := evaluator.New(nil, sampling.NewAdapter(logger.NewNop()), logger.NewNop(), evaluator.Config{})
	require.NoError(t, err)
	session := connect(t, NewServer(uc, logger.NewNop()), opts)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"image": samplePNG(t)},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))

	require.NotNil(t, sampled)
	assert.EqualValues(t, 1000, sampled.MaxTokens)
	require.Len(t, sampled.Messages, 2)
	_, isImage := sampled.Messages[1].Content.(*mcp.ImageContent)
	assert.True(t, isImage)

	structured := res.StructuredContent.(map[string]any)
	assert.Len(t, structured["results"], 10)
	assert.Contains(t, textOf(t, res), `"heuristic": "Visibility of system status"`)
}

func TestCallTool_SamplingFailure(t *testing.T) {
	opts := &mcp.ClientOptions{
		CreateMessageHandler: func(ctx context.Context, req *mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
			return nil, errors.New("user declined")
		},
	}

	uc, err := evaluator.New(nil, sampling.NewAdapter(logger.NewNop()), logger.NewNop(), evaluator.Config{})
	require.NoError(t, err)
	session := connect(t, NewServer(uc, logger.NewNop()), opts)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"image": samplePNG(t)},
	})
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "Failed to evaluate supplied image: language model request failed", textOf(t, res))
}

func TestHTTPHandler_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeEvaluator{mode: entity.OutputModeText}, logger.NewNop()).HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPHandler_Streamable(t *testing.T) {
	eval := &fakeEvaluator{mode: entity.OutputModeText, result: &entity.Evaluation{Text: "over http"}}
	srv := httptest.NewServer(NewServer(eval, logger.NewNop()).HTTPHandler())
	defer srv.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "http-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: srv.URL + "/mcp"}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "evaluate",
		Arguments: map[string]any{"url": "https://example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "over http", textOf(t, res))
}
