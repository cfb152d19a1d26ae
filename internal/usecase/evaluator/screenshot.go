package evaluator

import (
	"context"
	"fmt"

	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"
)

// withSession launches a browser session, hands it to fn and closes it on
// every return path, panics included.
func withSession(ctx context.Context, browser output.BrowserPort, log output.LoggerPort, fn func(output.BrowserSession) error) (err error) {
	session, err := browser.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("Failed to close browser session", "error", cerr)
		}
	}()

	return fn(session)
}

func (uc *UseCase) capture(ctx context.Context, pageURL string, log output.LoggerPort) (*entity.Screenshot, error) {
	var shot *entity.Screenshot

	err := withSession(ctx, uc.browser, log, func(session output.BrowserSession) error {
		page, err := session.NewPage(ctx)
		if err != nil {
			return fmt.Errorf("open page: %w", err)
		}

		if err := page.Goto(ctx, pageURL, output.NavigateOptions{
			WaitUntil: output.WaitNetworkAlmostIdle,
			Timeout:   uc.cfg.NavigationTimeout,
		}); err != nil {
			return fmt.Errorf("navigate to %s: %w", pageURL, err)
		}

		shot, err = page.Screenshot(ctx, true)
		if err != nil {
			return fmt.Errorf("capture screenshot: %w", err)
		}
		if shot == nil || len(shot.Data) == 0 {
			return fmt.Errorf("capture screenshot: empty image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shot, nil
}
