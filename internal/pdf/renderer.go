// Package pdf turns report HTML into paginated PDF documents with headless
// Chrome over the DevTools protocol.
package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second

	// A4 in inches.
	a4Width  = 8.27
	a4Height = 11.69
	marginIn = 0.4
)

// Renderer converts an HTML document to PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ChromeRenderer renders via a locally launched headless Chrome.
type ChromeRenderer struct {
	log         zerolog.Logger
	timeout     time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer launches the Chrome allocator. noSandbox is required
// when the process runs as root (containers).
func NewChromeRenderer(log zerolog.Logger, noSandbox bool) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if noSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{
		log:         log,
		timeout:     defaultTimeout,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// Render prints the HTML document to an A4 portrait PDF.
func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, fmt.Errorf("render: empty document")
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	var data []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(marginIn).
				WithMarginRight(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithLandscape(false).
				Do(ctx)
			if err != nil {
				return err
			}
			data = pdf
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("render: timed out after %v: %w", r.timeout, err)
		}
		return nil, fmt.Errorf("render: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("render: generated PDF is empty")
	}

	r.log.Info().
		Int("bytes", len(data)).
		Str("duration", time.Since(start).String()).
		Msg("PDF rendered")
	return data, nil
}

// Close shuts down the Chrome allocator.
func (r *ChromeRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ Renderer = (*ChromeRenderer)(nil)
