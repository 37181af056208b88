package fetch

import (
	"context"

	"github.com/gocolly/colly/v2"
)

// Scraper fetches HTML pages through a colly collector. Sportsbook and stats
// sites reject unbranded clients, so the configured browser User-Agent is
// always sent.
type Scraper struct {
	opts Options
}

func NewScraper(opts Options) *Scraper {
	return &Scraper{opts: opts.withDefaults()}
}

func (s *Scraper) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(url, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(s.opts.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.opts.Timeout)

	var (
		body   []byte
		status int
	)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range s.opts.Headers {
			r.Headers.Set(k, v)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		if status != 0 {
			return nil, statusError(url, status)
		}
		return nil, classify(url, err)
	}
	if status != 200 {
		return nil, statusError(url, status)
	}
	return body, nil
}
