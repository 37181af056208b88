package fetch

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Polite waits a random interval in [Min, Max] before every request it
// forwards. The wait is deliberate pacing against the upstream host, not an
// error path.
type Polite struct {
	next Fetcher
	Min  time.Duration
	Max  time.Duration

	// jitter and sleep are replaced in tests.
	jitter func(n int64) int64
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewPolite(next Fetcher, min, max time.Duration) *Polite {
	if max < min {
		max = min
	}
	return &Polite{
		next:   next,
		Min:    min,
		Max:    max,
		jitter: rand.Int64N,
		sleep:  sleepCtx,
	}
}

func (p *Polite) Fetch(ctx context.Context, url string) ([]byte, error) {
	d := p.delay()
	if d > 0 {
		slog.Debug("polite delay before fetch", "url", url, "delay", d)
		if err := p.sleep(ctx, d); err != nil {
			return nil, classify(url, err)
		}
	}
	return p.next.Fetch(ctx, url)
}

func (p *Polite) delay() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	return p.Min + time.Duration(p.jitter(span+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
