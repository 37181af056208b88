package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ncaablines/internal/collector"
	"ncaablines/internal/model"
)

// maxUpload caps request bodies for submissions and imports.
const maxUpload = 10 << 20

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unhealthy",
			"message": err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC(),
		"service":   "ncaablines",
	})
}

type gamelinesResponse struct {
	Gamelines   []model.Gameline        `json:"gamelines"`
	LastUpdated string                  `json:"last_updated"`
	GameCount   int                     `json:"game_count"`
	Stored      *int                    `json:"stored,omitempty"`
	Errors      []collector.SourceError `json:"errors,omitempty"`
}

func (s *Server) listGamelines(w http.ResponseWriter, r *http.Request) {
	lines, err := s.collector.Lines(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, gamelinesResponse{
		Gamelines:   lines,
		LastUpdated: s.now().UTC().Format(time.RFC3339),
		GameCount:   len(lines),
	})
}

// refreshGamelines collects the sources named in ?source= (comma separated),
// or every enabled source. Per-source failures come back in errors with a
// 200 status.
func (s *Server) refreshGamelines(w http.ResponseWriter, r *http.Request) {
	var ids []model.Source
	if q := r.URL.Query().Get("source"); q != "" {
		for _, name := range strings.Split(q, ",") {
			src, err := s.registry.Resolve(name)
			if err != nil {
				respondError(w, err)
				return
			}
			ids = append(ids, src.ID())
		}
	}

	res := s.collector.Collect(r.Context(), ids...)
	stored := res.Stored
	respondJSON(w, http.StatusOK, gamelinesResponse{
		Gamelines:   res.Gamelines,
		LastUpdated: s.now().UTC().Format(time.RFC3339),
		GameCount:   len(res.Gamelines),
		Stored:      &stored,
		Errors:      res.Errors,
	})
}

func (s *Server) submitGameline(w http.ResponseWriter, r *http.Request) {
	var g model.Gameline
	dec := json.NewDecoder(io.LimitReader(r.Body, maxUpload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&g); err != nil {
		respondError(w, &model.ValidationError{Field: "body", Message: err.Error()})
		return
	}

	stored, err := s.collector.Submit(r.Context(), g)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) exportGamelines(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := s.exporter.Encode(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, s.exporter.FileName(s.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) importGamelines(w http.ResponseWriter, r *http.Request) {
	report, err := s.exporter.Import(r.Context(), io.LimitReader(r.Body, maxUpload))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) teamStats(w http.ResponseWriter, r *http.Request) {
	lastN := 0
	if v := r.URL.Query().Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, &model.ValidationError{Field: "last", Message: fmt.Sprintf("%q is not a positive number of games", v)})
			return
		}
		lastN = n
	}

	summary, err := s.stats.ReadStats(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "year"), lastN)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) scrapeTeam(w http.ResponseWriter, r *http.Request) {
	team, year := chi.URLParam(r, "team"), chi.URLParam(r, "year")
	ok, err := s.stats.ScrapeAndStore(r.Context(), team, year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"team":   strings.ToLower(team),
		"season": year,
		"stored": ok,
	})
}
