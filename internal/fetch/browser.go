package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the static text length below which a page is
// assumed to be rendered client-side.
const MinContentLength = 500

// consentButtons matches cookie and consent dialogs worth dismissing
const consentButtons = `button[id*="accept"], button[class*="accept"], button[aria-label*="Accept"]`

// ShouldUseBrowser reports whether extracted text is too short to be a posting
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions tunes the headless render
type BrowserOptions struct {
	// Timeout bounds the whole session including Chrome startup
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to fill it
	Settle time.Duration
	// WaitFor is an optional selector that must be visible before capture
	WaitFor string
}

// DefaultBrowserOptions returns a 30s session with a 3s settle
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{Timeout: DefaultTimeout, Settle: 3 * time.Second}
}

// Browser returns a RenderFunc backed by headless Chrome. Each call starts
// its own Chrome process, which must be installed on the host.
func Browser(opts BrowserOptions, log *zap.Logger) RenderFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return func(ctx context.Context, url string) (string, error) {
		start := time.Now()
		html, err := renderPage(ctx, url, opts)
		if err != nil {
			return "", fmt.Errorf("browser rendering failed: %w", err)
		}
		log.Debug("rendered page",
			zap.String("url", url),
			zap.Int("bytes", len(html)),
			zap.Duration("elapsed", time.Since(start)))
		return html, nil
	}
}

func allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(DefaultUserAgent),
	)
}

func renderActions(url string, opts BrowserOptions, html *string) chromedp.Tasks {
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if opts.WaitFor != "" {
		tasks = append(tasks, chromedp.WaitVisible(opts.WaitFor))
	}
	if opts.Settle > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.Settle))
	}
	tasks = append(tasks,
		chromedp.ActionFunc(func(ctx context.Context) error {
			// best effort; most pages have no consent dialog
			_ = chromedp.Click(consentButtons, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", html),
	)
	return tasks
}

func renderPage(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	if err := chromedp.Run(browserCtx, renderActions(url, opts, &html)); err != nil {
		return "", err
	}
	return html, nil
}
