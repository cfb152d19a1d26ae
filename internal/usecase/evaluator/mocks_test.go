package evaluator

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"sync"
	"testing"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

type mockBrowser struct {
	mu sync.Mutex

	launchErr     error
	newPageErr    error
	gotoErr       error
	screenshotErr error
	panicOnGoto   bool
	shot          *entity.Screenshot

	launches int
	sessions int
	closes   int
	gotoURL  string
	gotoOpts output.NavigateOptions
	fullPage bool
}

func (b *mockBrowser) Launch(ctx context.Context) (output.BrowserSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.launches++
	if b.launchErr != nil {
		return nil, b.launchErr
	}
	b.sessions++
	return &mockSession{browser: b}, nil
}

func (b *mockBrowser) openSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions - b.closes
}

type mockSession struct {
	browser *mockBrowser
}

func (s *mockSession) NewPage(ctx context.Context) (output.BrowserPage, error) {
	if s.browser.newPageErr != nil {
		return nil, s.browser.newPageErr
	}
	return &mockPage{browser: s.browser}, nil
}

func (s *mockSession) Close() error {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	s.browser.closes++
	return nil
}

type mockPage struct {
	browser *mockBrowser
}

func (p *mockPage) Goto(ctx context.Context, url string, opts output.NavigateOptions) error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.browser.gotoURL = url
	p.browser.gotoOpts = opts
	if p.browser.panicOnGoto {
		panic("renderer crashed")
	}
	return p.browser.gotoErr
}

func (p *mockPage) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.browser.fullPage = fullPage
	if p.browser.screenshotErr != nil {
		return nil, p.browser.screenshotErr
	}
	return p.browser.shot, nil
}

type mockCompleter struct {
	mu       sync.Mutex
	response string
	err      error

	calls     int
	messages  []entity.Message
	maxTokens int
}

func (c *mockCompleter) Name() string { return "mock" }

func (c *mockCompleter) Complete(ctx context.Context, messages []entity.Message, maxOutputTokens int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.messages = messages
	c.maxTokens = maxOutputTokens
	return c.response, c.err
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func testPNGBase64(t *testing.T, w, h int) string {
	return base64.StdEncoding.EncodeToString(testPNG(t, w, h))
}
