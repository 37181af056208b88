package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/chromedp"
)

// Browser renders a page in headless Chrome and returns the resulting HTML.
// Sportsbooks that build their odds tables client-side need this instead of
// Scraper.
type Browser struct {
	opts Options
	mu   sync.Mutex
}

func NewBrowser(opts Options) *Browser {
	return &Browser{opts: opts.withDefaults()}
}

func (b *Browser) Fetch(ctx context.Context, url string) ([]byte, error) {
	// One Chrome at a time.
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, b.opts.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, classify(url, err)
	}
	return []byte(html), nil
}
