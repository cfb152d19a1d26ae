package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
	defaultMaxWidth       = 1024
	closeTimeout          = 5 * time.Second
)

type BrowserConfig struct {
	Headless  bool
	NoSandbox bool
	// Bin overrides the Chromium binary; empty lets rod find or download one.
	Bin string
	// ControlURL attaches to a running browser instead of launching one.
	// Each session then gets its own incognito context.
	ControlURL string

	ViewportWidth  int
	ViewportHeight int
	// MaxWidth downscales wider screenshots; 0 keeps the native width.
	MaxWidth int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       true,
		NoSandbox:      false,
		ViewportWidth:  defaultViewportWidth,
		ViewportHeight: defaultViewportHeight,
		MaxWidth:       defaultMaxWidth,
	}
}

// BrowserAdapter launches one Chromium process per session, or shares a
// single connection to ControlURL and isolates sessions by incognito context.
type BrowserAdapter struct {
	cfg BrowserConfig

	mu     sync.Mutex
	remote *rod.Browser
}

func NewBrowserAdapter(cfg BrowserConfig) *BrowserAdapter {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = defaultViewportWidth
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = defaultViewportHeight
	}
	if cfg.MaxWidth < 0 {
		cfg.MaxWidth = 0
	}
	return &BrowserAdapter{cfg: cfg}
}

func (b *BrowserAdapter) Launch(ctx context.Context) (output.BrowserSession, error) {
	if b.cfg.ControlURL != "" {
		return b.attach(ctx)
	}

	l := launcher.New().
		Headless(b.cfg.Headless).
		NoSandbox(b.cfg.NoSandbox).
		Set("disable-gpu").
		Set("hide-scrollbars")
	if b.cfg.Bin != "" {
		l = l.Bin(b.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &session{
		browser:  browser,
		launcher: l,
		cfg:      b.cfg,
	}, nil
}

func (b *BrowserAdapter) attach(ctx context.Context) (output.BrowserSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.remote == nil {
		u, err := launcher.ResolveURL(b.cfg.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve browser control url: %w", err)
		}
		remote := rod.New().ControlURL(u)
		if err := remote.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to browser: %w", err)
		}
		b.remote = remote
	}

	incognito, err := b.remote.Context(ctx).Incognito()
	if err != nil {
		// the shared connection may be stale; reconnect on the next launch
		b.remote = nil
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &session{browser: incognito, cfg: b.cfg}, nil
}

// Close drops the shared connection to ControlURL, if any. Sessions
// launched by this adapter are closed by their owners.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remote = nil
}

type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // nil for incognito sessions on a shared browser
	cfg      BrowserConfig

	closeOnce sync.Once
	closeErr  error
}

func (s *session) NewPage(ctx context.Context) (output.BrowserPage, error) {
	p, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &page{page: p, maxWidth: s.cfg.MaxWidth}, nil
}

// Close closes the browser (or incognito context) and, for launched
// sessions, kills the process and removes its profile directory.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		// the invocation context may already be done
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		if s.browser != nil {
			s.closeErr = s.browser.Context(ctx).Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.closeErr
}

type page struct {
	page     *rod.Page
	maxWidth int
}

func (p *page) Goto(ctx context.Context, url string, opts output.NavigateOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pg := p.page.Context(ctx)

	var waitIdle func()
	if opts.WaitUntil == output.WaitNetworkAlmostIdle {
		waitIdle = pg.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	}

	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	if waitIdle != nil {
		waitIdle()
	} else if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("page did not settle within %s: %w", opts.Timeout.Round(time.Millisecond), err)
		}
		return err
	}
	return nil
}

func (p *page) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	raw, err := p.page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	return normalizePNG(raw, p.maxWidth)
}
