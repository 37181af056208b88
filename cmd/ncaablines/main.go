package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ncaablines/internal/api"
	"ncaablines/internal/config"
	"ncaablines/internal/model"
	"ncaablines/internal/stats"
)

func main() {
	// Parse CLI flags.
	configFlag := flag.String("config", "", "Path to the TOML config file")
	ingest := flag.String("ingest", "", "Collect gamelines from one source, or all, and exit")
	scrape := flag.String("scrape", "", "Scrape and store one team's game log (team:season) and exit")
	exportDir := flag.String("export", "", "Export every stored gameline into this directory and exit")
	importPath := flag.String("import", "", "Import gamelines from an export file and exit")
	flag.Parse()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	// Load configuration.
	configPath, allowMissing := *configFlag, false
	if configPath == "" {
		configPath = os.Getenv("NCAAB_CONFIG_PATH")
	}
	if configPath == "" {
		configPath, allowMissing = "config.toml", true
	}

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel),
	})))

	slog.Info("ncaablines starting", "config", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	switch {
	case *ingest != "":
		err = runIngest(ctx, a, *ingest)
	case *scrape != "":
		err = runScrape(ctx, a, *scrape)
	case *exportDir != "":
		var path string
		if path, err = a.exporter.Export(ctx, *exportDir); err == nil {
			slog.Info("export written", "path", path)
		}
	case *importPath != "":
		err = runImport(ctx, a, *importPath)
	default:
		err = serve(ctx, cancel, a, cfg)
	}
	if err != nil {
		slog.Error("ncaablines failed", "kind", model.KindOf(err), "error", err)
		os.Exit(1)
	}

	slog.Info("ncaablines stopped")
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func runIngest(ctx context.Context, a *app, name string) error {
	var ids []model.Source
	if !strings.EqualFold(name, "all") {
		src, err := a.registry.Resolve(name)
		if err != nil {
			return err
		}
		ids = append(ids, src.ID())
	}

	res := a.collector.Collect(ctx, ids...)
	for _, e := range res.Errors {
		slog.Warn("source failed", "source", e.Source, "kind", e.Kind, "message", e.Message)
	}
	if len(res.Gamelines) == 0 && len(res.Errors) > 0 {
		return fmt.Errorf("no source produced gamelines (%d failed)", len(res.Errors))
	}
	return nil
}

func runScrape(ctx context.Context, a *app, arg string) error {
	team, season, ok := strings.Cut(arg, ":")
	if !ok {
		return &model.ValidationError{Field: "scrape", Message: fmt.Sprintf("%q is not team:season", arg)}
	}

	stored, err := a.stats.ScrapeAndStore(ctx, team, season)
	if err != nil {
		return err
	}
	if !stored {
		slog.Warn("nothing stored", "team", team, "season", season)
		return nil
	}

	summary, err := a.stats.ReadStats(ctx, team, season, 0)
	if err != nil {
		return err
	}
	stats.LogSummary(summary)
	return nil
}

func runImport(ctx context.Context, a *app, path string) error {
	report, err := a.exporter.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	for _, msg := range report.Errors {
		slog.Warn("record rejected", "error", msg)
	}
	slog.Info("import finished", "path", path, "imported", report.Imported, "failed", report.Failed)
	return nil
}

func serve(ctx context.Context, cancel context.CancelFunc, a *app, cfg *config.Config) error {
	srv := api.NewServer(api.Deps{
		Collector: a.collector,
		Registry:  a.registry,
		Exporter:  a.exporter,
		Stats:     a.stats,
		Ping:      a.db.PingContext,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      srv.Router(cfg.Server.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("http server listening", "addr", cfg.Server.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		return fmt.Errorf("serving http: %w", err)
	}
	<-stopped
	return nil
}
