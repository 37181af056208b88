// Package api exposes the gameline and team stats core over HTTP. Handlers
// decode input, call the core and map typed errors onto status codes.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ncaablines/internal/collector"
	"ncaablines/internal/source"
	"ncaablines/internal/stats"
	"ncaablines/internal/store"
)

// Server holds the handlers' dependencies.
type Server struct {
	collector *collector.Collector
	registry  *source.Registry
	exporter  *store.Exporter
	stats     *stats.Service
	ping      func(ctx context.Context) error
	now       func() time.Time
}

// Deps are the core components the HTTP layer calls into. Ping is optional
// and backs the health check.
type Deps struct {
	Collector *collector.Collector
	Registry  *source.Registry
	Exporter  *store.Exporter
	Stats     *stats.Service
	Ping      func(ctx context.Context) error
}

func NewServer(d Deps) *Server {
	ping := d.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	return &Server{
		collector: d.Collector,
		registry:  d.Registry,
		exporter:  d.Exporter,
		stats:     d.Stats,
		ping:      ping,
		now:       time.Now,
	}
}

// Router builds the chi router with CORS allowed for corsOrigins.
func (s *Server) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/ncaab", func(r chi.Router) {
		r.Get("/gamelines", s.listGamelines)
		r.Post("/gamelines", s.submitGameline)
		r.Post("/gamelines/refresh", s.refreshGamelines)
		r.Get("/gamelines/export", s.exportGamelines)
		r.Post("/gamelines/import", s.importGamelines)

		r.Get("/{team}/{year}", s.teamStats)
		r.Post("/{team}/{year}/scrape", s.scrapeTeam)
	})

	return r
}

// requestLogger logs one line per request once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
