// Package fetch retrieves raw upstream content. It knows nothing about the
// layout of what it downloads.
package fetch

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"ncaablines/internal/model"
)

const DefaultTimeout = 10 * time.Second

// Fetcher returns the raw body at a URL or a *model.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options are shared by every Fetcher implementation.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// classify turns a transport error into a FetchError.
func classify(rawURL string, err error) *model.FetchError {
	var fe *model.FetchError
	if errors.As(err, &fe) {
		return fe
	}

	kind := model.FetchNetwork
	var ne net.Error
	var ue *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = model.FetchTimeout
	case errors.As(err, &ue) && ue.Timeout():
		kind = model.FetchTimeout
	case errors.As(err, &ne) && ne.Timeout():
		kind = model.FetchTimeout
	}
	return &model.FetchError{URL: rawURL, Kind: kind, Err: err}
}

func statusError(rawURL string, status int) *model.FetchError {
	return &model.FetchError{URL: rawURL, Kind: model.FetchHTTPStatus, Status: status}
}
