package stats

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"ncaablines/internal/fetch"
	"ncaablines/internal/model"
)

// Service scrapes game logs into the Store and summarizes them on read.
type Service struct {
	fetcher     fetch.Fetcher
	store       *Store
	urlTemplate string
}

// NewService builds a Service. urlTemplate takes the team slug and the season
// year, in that order.
func NewService(fetcher fetch.Fetcher, store *Store, urlTemplate string) *Service {
	return &Service{fetcher: fetcher, store: store, urlTemplate: urlTemplate}
}

// ScrapeAndStore replaces the stored rows for team and season with a fresh
// scrape. It reports false, without touching stored rows, when the page
// lists no games.
func (s *Service) ScrapeAndStore(ctx context.Context, team, season string) (bool, error) {
	team, season, err := normalizeTeamSeason(team, season)
	if err != nil {
		return false, err
	}

	u := fmt.Sprintf(s.urlTemplate, url.PathEscape(team), season)
	raw, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		return false, err
	}

	rows, err := ParseGamelog(raw)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		slog.Warn("game log has no games", "team", team, "season", season)
		return false, nil
	}

	if err := s.store.Replace(ctx, team, season, rows); err != nil {
		return false, fmt.Errorf("storing %s %s: %w", team, season, err)
	}
	slog.Info("stored team game log", "team", team, "season", season, "games", len(rows))
	return true, nil
}

// ReadStats summarizes the stored rows for team and season. A positive
// lastN limits the summary to the most recent lastN games.
func (s *Service) ReadStats(ctx context.Context, team, season string, lastN int) (model.TeamSeasonSummary, error) {
	team, season, err := normalizeTeamSeason(team, season)
	if err != nil {
		return model.TeamSeasonSummary{}, err
	}

	rows, err := s.store.Rows(ctx, team, season)
	if err != nil {
		return model.TeamSeasonSummary{}, err
	}
	if lastN > 0 {
		if rows, err = Recent(rows, lastN); err != nil {
			return model.TeamSeasonSummary{}, err
		}
	}
	return Summarize(team, season, rows), nil
}

// normalizeTeamSeason lower-cases the team slug and checks the season is a
// year.
func normalizeTeamSeason(team, season string) (string, string, error) {
	team = strings.ToLower(strings.TrimSpace(team))
	season = strings.TrimSpace(season)
	if team == "" {
		return "", "", &model.ValidationError{Field: "team", Message: "team is required"}
	}
	if y, err := strconv.Atoi(season); err != nil || len(season) != 4 || y < 1900 {
		return "", "", &model.ValidationError{Field: "season", Message: fmt.Sprintf("season %q is not a year", season)}
	}
	return team, season, nil
}
