package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultChromeTimeout = 30 * time.Second

// ChromiumConfig configures the headless Chrome backend.
type ChromiumConfig struct {
	// RemoteURL targets an already running browser's DevTools endpoint. A
	// local headless browser is launched when empty.
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
	Logger    *slog.Logger
}

// ChromiumBackend prints documents through the Chrome DevTools Protocol.
type ChromiumBackend struct {
	cfg         ChromiumConfig
	logger      *slog.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromiumBackend prepares the allocator. The browser itself starts on
// the first render.
func NewChromiumBackend(cfg ChromiumConfig) *ChromiumBackend {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &ChromiumBackend{cfg: cfg, logger: logger}
	if cfg.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg)...)
	}
	return b
}

func allocatorOptions(cfg ChromiumConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// RenderPDF loads doc into a blank tab and prints it.
func (b *ChromiumBackend) RenderPDF(ctx context.Context, doc string, opts PageOptions) ([]byte, error) {
	if b == nil {
		return nil, errors.New("chromium backend not initialised")
	}
	if strings.TrimSpace(doc) == "" {
		return nil, errors.New("chromium: empty document")
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		b.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer tabCancel()

	// Tie the tab to the caller's deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var data []byte
	start := time.Now()
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			data, _, err = printParams(opts).Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("chromium: timed out after %v: %w", b.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("chromium: print: %w", err)
	}
	b.logger.Debug("chromium rendered pdf", slog.Int("bytes", len(data)), slog.Duration("duration", time.Since(start)))
	return data, nil
}

func printParams(opts PageOptions) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(false).
		WithPaperWidth(opts.PaperWidth).
		WithPaperHeight(opts.PaperHeight).
		WithMarginTop(opts.MarginTop).
		WithMarginRight(opts.MarginRight).
		WithMarginBottom(opts.MarginBottom).
		WithMarginLeft(opts.MarginLeft)
	if opts.HeaderHTML != "" || opts.FooterHTML != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(opts.HeaderHTML).
			WithFooterTemplate(opts.FooterHTML)
	}
	return params
}

// Close stops the browser, if one was launched.
func (b *ChromiumBackend) Close() error {
	if b != nil && b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

var _ Backend = (*ChromiumBackend)(nil)
