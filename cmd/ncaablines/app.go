package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ncaablines/internal/collector"
	"ncaablines/internal/config"
	"ncaablines/internal/db"
	"ncaablines/internal/fetch"
	"ncaablines/internal/model"
	"ncaablines/internal/source"
	"ncaablines/internal/stats"
	"ncaablines/internal/store"
)

// app is the wired core shared by the one-shot commands and the server.
type app struct {
	db        *sql.DB
	registry  *source.Registry
	collector *collector.Collector
	exporter  *store.Exporter
	stats     *stats.Service
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	// Initialize database.
	database, err := db.Open(cfg.General.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a := &app{db: database, closers: []func() error{database.Close}}

	if err := db.Migrate(database); err != nil {
		a.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	lines, err := a.gamelineStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.registry, err = source.FromConfig(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("registering sources: %w", err)
	}
	slog.Info("sources registered", "sources", a.registry.IDs())

	opts := fetch.Options{
		Timeout:   cfg.Fetch.Timeout.Duration,
		UserAgent: cfg.Fetch.UserAgent,
	}
	a.collector = collector.New(a.registry, lines, fetcherFor(cfg, opts))
	a.exporter = store.NewExporter(lines, cfg.General.Sport)

	pageFetcher := fetch.NewPolite(fetch.NewScraper(opts), cfg.Fetch.MinDelay.Duration, cfg.Fetch.MaxDelay.Duration)
	a.stats = stats.NewService(pageFetcher, stats.NewStore(database), cfg.Stats.URLTemplate)

	return a, nil
}

// gamelineStore opens the configured gameline backend.
func (a *app) gamelineStore(ctx context.Context, cfg *config.Config) (store.Gamelines, error) {
	switch cfg.Store.Backend {
	case "memory":
		slog.Warn("gamelines are kept in memory and lost on exit")
		return store.NewMemory(), nil
	case "redis":
		r, err := store.NewRedisFromURL(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		slog.Info("gameline store", "backend", "redis")
		return r, nil
	default:
		slog.Info("gameline store", "backend", "sqlite")
		return store.NewSQLite(a.db), nil
	}
}

// fetcherFor paces the scraped sportsbooks and talks to JSON APIs directly.
func fetcherFor(cfg *config.Config, opts fetch.Options) func(model.Source) fetch.Fetcher {
	return func(id model.Source) fetch.Fetcher {
		switch id {
		case model.SourceESPNBets:
			return fetch.NewClient(opts)
		default:
			var page fetch.Fetcher = fetch.NewScraper(opts)
			if cfg.Fetch.RenderJS {
				page = fetch.NewBrowser(opts)
			}
			return fetch.NewPolite(page, cfg.Fetch.MinDelay.Duration, cfg.Fetch.MaxDelay.Duration)
		}
	}
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
