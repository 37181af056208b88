package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ncaablines/internal/fetch"
	"ncaablines/internal/model"
	"ncaablines/internal/source"
	"ncaablines/internal/store"
)

// SourceError reports why one source contributed nothing to a collection.
type SourceError struct {
	Source  model.Source `json:"source"`
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
}

// Result is everything one collection produced. A source that failed
// appears in Errors and the others still contribute Gamelines.
type Result struct {
	Gamelines []model.Gameline `json:"gamelines"`
	Stored    int              `json:"stored"`
	Errors    []SourceError    `json:"errors"`
}

// Collector pulls gamelines from sources and writes them to the store.
type Collector struct {
	registry *source.Registry
	fetchers map[model.Source]fetch.Fetcher
	store    store.Gamelines
	manual   source.Manual
	now      func() time.Time
}

// New builds a Collector. fetcherFor picks the Fetcher used for each
// registered source.
func New(registry *source.Registry, st store.Gamelines, fetcherFor func(model.Source) fetch.Fetcher) *Collector {
	fetchers := make(map[model.Source]fetch.Fetcher)
	for _, id := range registry.IDs() {
		if f := fetcherFor(id); f != nil {
			fetchers[id] = f
		}
	}
	return &Collector{
		registry: registry,
		fetchers: fetchers,
		store:    st,
		now:      time.Now,
	}
}

// Collect fetches, parses and stores each requested source. With no ids,
// every registered source is collected. Sources run concurrently and share
// nothing until the store.
func (c *Collector) Collect(ctx context.Context, ids ...model.Source) Result {
	if len(ids) == 0 {
		ids = c.registry.IDs()
	}

	type sourceResult struct {
		lines  []model.Gameline
		stored int
		err    *SourceError
	}
	results := make([]sourceResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lines, stored, err := c.collectOne(ctx, id)
			results[i] = sourceResult{lines: lines, stored: stored}
			if err != nil {
				slog.Warn("source collection failed", "source", id, "error", err)
				results[i].err = &SourceError{Source: id, Kind: model.KindOf(err), Message: err.Error()}
			}
		}()
	}
	wg.Wait()

	res := Result{Gamelines: []model.Gameline{}, Errors: []SourceError{}}
	for _, r := range results {
		res.Gamelines = append(res.Gamelines, r.lines...)
		res.Stored += r.stored
		if r.err != nil {
			res.Errors = append(res.Errors, *r.err)
		}
	}

	slog.Info("collection complete", "sources", len(ids), "gamelines", len(res.Gamelines), "stored", res.Stored, "errors", len(res.Errors))
	return res
}

func (c *Collector) collectOne(ctx context.Context, id model.Source) ([]model.Gameline, int, error) {
	src, err := c.registry.Lookup(id)
	if err != nil {
		return nil, 0, err
	}
	f, ok := c.fetchers[id]
	if !ok {
		return nil, 0, &model.ValidationError{Field: "source", Message: "no fetcher for " + string(id)}
	}

	raw, err := f.Fetch(ctx, src.URL())
	if err != nil {
		return nil, 0, err
	}

	lines, err := src.Extract(raw, c.now())
	if err != nil {
		return nil, 0, err
	}

	stored := 0
	for _, g := range lines {
		if err := c.store.Upsert(ctx, g); err != nil {
			slog.Warn("failed to store gameline", "source", id, "key", g.Key().String(), "error", err)
			continue
		}
		stored++
	}
	slog.Info("source collected", "source", id, "gamelines", len(lines), "stored", stored)
	return lines, stored, nil
}

// Submit stores a manually entered gameline and returns it as stored.
func (c *Collector) Submit(ctx context.Context, g model.Gameline) (model.Gameline, error) {
	g, err := c.manual.Accept(g)
	if err != nil {
		return model.Gameline{}, err
	}
	if err := c.store.Upsert(ctx, g); err != nil {
		return model.Gameline{}, err
	}
	slog.Info("manual gameline stored", "key", g.Key().String())
	return g, nil
}

// Lines returns every stored gameline.
func (c *Collector) Lines(ctx context.Context) ([]model.Gameline, error) {
	return c.store.All(ctx)
}
