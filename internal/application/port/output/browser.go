package output

import (
	"context"
	"time"

	"askseer-mcp/internal/domain/entity"
)

// BrowserPort starts isolated browser sessions. Every session returned by
// Launch must be closed by the caller.
type BrowserPort interface {
	Launch(ctx context.Context) (BrowserSession, error)
}

type BrowserSession interface {
	NewPage(ctx context.Context) (BrowserPage, error)
	Close() error
}

type WaitUntil string

const (
	WaitLoad              WaitUntil = "load"
	WaitNetworkAlmostIdle WaitUntil = "networkAlmostIdle"
)

type NavigateOptions struct {
	WaitUntil WaitUntil
	Timeout   time.Duration
}

type BrowserPage interface {
	Goto(ctx context.Context, url string, opts NavigateOptions) error
	Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error)
}
